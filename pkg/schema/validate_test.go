package schema

import (
	"strings"
	"testing"
)

func textField(name string) FieldSchema {
	return FieldSchema{Name: name, Type: FieldTypeText}
}

func singleSection(fields ...FieldSchema) FormSchema {
	return FormSchema{Sections: []Section{{ID: "main", Fields: fields}}}
}

func TestValidateFormRejectsDuplicateNames(t *testing.T) {
	t.Parallel()

	form := singleSection(textField("email"), textField("email"))
	err := ValidateForm(form)
	if err == nil || !strings.Contains(err.Error(), "duplicate field name") {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
}

func TestValidateFormRejectsUnknownTypes(t *testing.T) {
	t.Parallel()

	form := singleSection(FieldSchema{Name: "x", Type: "slider"})
	err := ValidateForm(form)
	if err == nil || !strings.Contains(err.Error(), "unknown type") {
		t.Fatalf("expected unknown type error, got %v", err)
	}
}

func TestValidateFormRequiresOptionsForSelect(t *testing.T) {
	t.Parallel()

	form := singleSection(FieldSchema{Name: "region", Type: FieldTypeSelect})
	err := ValidateForm(form)
	if err == nil || !strings.Contains(err.Error(), "no options") {
		t.Fatalf("expected options error, got %v", err)
	}

	// A single checkbox is fine without options; a checkbox group is not.
	single := singleSection(FieldSchema{Name: "tos", Type: FieldTypeCheckbox})
	if err := ValidateForm(single); err != nil {
		t.Fatalf("single checkbox should validate, got %v", err)
	}
	group := singleSection(FieldSchema{Name: "topics", Type: FieldTypeCheckbox, Multiple: true})
	if err := ValidateForm(group); err == nil {
		t.Fatalf("checkbox group without options should fail")
	}
}

func TestValidateFormRejectsBadPatterns(t *testing.T) {
	t.Parallel()

	field := FieldSchema{
		Name:       "code",
		Type:       FieldTypeText,
		Validation: StringRule{Pattern: "(["},
	}
	err := ValidateForm(singleSection(field))
	if err == nil || !strings.Contains(err.Error(), "invalid pattern") {
		t.Fatalf("expected pattern error, got %v", err)
	}
}

func TestValidateFormRejectsUnknownConditionalReferences(t *testing.T) {
	t.Parallel()

	field := textField("quota")
	field.Conditional = &ConditionalRule{Field: "missing", Operator: OpEquals, Value: "x"}
	err := ValidateForm(singleSection(textField("type"), field))
	if err == nil || !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("expected unknown reference error, got %v", err)
	}
}

func TestValidateFormRejectsConditionalCycles(t *testing.T) {
	t.Parallel()

	a := textField("a")
	a.Conditional = &ConditionalRule{Field: "b", Operator: OpEquals, Value: "1"}
	b := textField("b")
	b.Conditional = &ConditionalRule{Field: "a", Operator: OpEquals, Value: "1"}

	err := ValidateForm(singleSection(a, b))
	if err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}

	// Direct self reference.
	self := textField("self")
	self.Conditional = &ConditionalRule{Field: "self", Operator: OpEquals, Value: "1"}
	if err := ValidateForm(singleSection(self)); err == nil {
		t.Fatalf("expected self-reference cycle error")
	}
}

func TestValidateFormAcceptsAcyclicChains(t *testing.T) {
	t.Parallel()

	a := textField("a")
	b := textField("b")
	b.Conditional = &ConditionalRule{Field: "a", Operator: OpEquals, Value: "1"}
	c := textField("c")
	c.Conditional = &ConditionalRule{
		Field: "b", Operator: OpEquals, Value: "1",
		Rules: []ConditionalRule{{Field: "a", Operator: OpNotEquals, Value: "2"}},
	}

	if err := ValidateForm(singleSection(a, b, c)); err != nil {
		t.Fatalf("ValidateForm returned error: %v", err)
	}
}
