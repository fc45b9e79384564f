package schema

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads a form document from the given source, decodes it, sanitizes
// author-supplied text, and statically validates the result. JSON documents
// are accepted alongside YAML since YAML 1.2 is a JSON superset.
func Load(src Source, fsys fs.FS) (FormSchema, error) {
	doc, err := loadDocument(src, fsys)
	if err != nil {
		return FormSchema{}, err
	}
	return Parse(doc)
}

// Parse decodes, sanitizes, and validates an already-loaded document.
func Parse(doc Document) (FormSchema, error) {
	var form FormSchema
	if err := yaml.Unmarshal(doc.Raw(), &form); err != nil {
		return FormSchema{}, fmt.Errorf("schema: decode %s: %w", doc.Location(), err)
	}

	sanitizeForm(&form)

	if err := ValidateForm(form); err != nil {
		return FormSchema{}, err
	}
	return form, nil
}

func loadDocument(src Source, fsys fs.FS) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}

	var (
		raw []byte
		err error
	)
	switch src.Kind() {
	case SourceKindFile:
		raw, err = os.ReadFile(src.Location())
	case SourceKindFS:
		if fsys == nil {
			return Document{}, errors.New("schema: fs source requires a filesystem")
		}
		raw, err = fs.ReadFile(fsys, src.Location())
	default:
		return Document{}, fmt.Errorf("schema: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return Document{}, fmt.Errorf("schema: read %s: %w", src.Location(), err)
	}
	return NewDocument(src, raw)
}

// UnmarshalYAML decodes a field and then resolves the validation block into
// the rule variant matching the field's declared type.
func (f *FieldSchema) UnmarshalYAML(value *yaml.Node) error {
	type plain FieldSchema
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*f = FieldSchema(p)

	var probe struct {
		Validation yaml.Node `yaml:"validation"`
	}
	if err := value.Decode(&probe); err != nil {
		return err
	}
	if probe.Validation.Kind == 0 {
		return nil
	}

	rule, err := decodeRule(f.Type, &probe.Validation)
	if err != nil {
		return fmt.Errorf("field %q: %w", f.Name, err)
	}
	f.Validation = rule
	return nil
}

func decodeRule(fieldType FieldType, node *yaml.Node) (ValidationRule, error) {
	switch fieldType {
	case FieldTypeText, FieldTypeEmail, FieldTypeTextarea:
		var rule StringRule
		if err := node.Decode(&rule); err != nil {
			return nil, fmt.Errorf("decode string validation: %w", err)
		}
		return rule, nil
	case FieldTypeNumber:
		var rule NumberRule
		if err := node.Decode(&rule); err != nil {
			return nil, fmt.Errorf("decode number validation: %w", err)
		}
		return rule, nil
	case FieldTypeDate:
		var rule DateRule
		if err := node.Decode(&rule); err != nil {
			return nil, fmt.Errorf("decode date validation: %w", err)
		}
		return rule, nil
	case FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox:
		var rule SelectRule
		if err := node.Decode(&rule); err != nil {
			return nil, fmt.Errorf("decode select validation: %w", err)
		}
		return rule, nil
	default:
		return nil, fmt.Errorf("unknown field type %q", fieldType)
	}
}

// UnmarshalYAML accepts date bounds as RFC 3339 timestamps or plain
// YYYY-MM-DD dates, which is what JSON documents carry.
func (r *DateRule) UnmarshalYAML(value *yaml.Node) error {
	var aux struct {
		Required bool   `yaml:"required"`
		MinDate  any    `yaml:"minDate"`
		MaxDate  any    `yaml:"maxDate"`
		Message  string `yaml:"message"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}

	r.Required = aux.Required
	r.Message = aux.Message

	var err error
	if r.MinDate, err = dateBound(aux.MinDate); err != nil {
		return fmt.Errorf("minDate: %w", err)
	}
	if r.MaxDate, err = dateBound(aux.MaxDate); err != nil {
		return fmt.Errorf("maxDate: %w", err)
	}
	return nil
}

// dateBound accepts either a YAML-resolved timestamp or a date string, the
// latter being what JSON documents and quoted scalars carry.
func dateBound(raw any) (*time.Time, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &v, nil
	case string:
		if v == "" {
			return nil, nil
		}
		t, err := ParseDate(v)
		if err != nil {
			return nil, err
		}
		return &t, nil
	default:
		return nil, fmt.Errorf("invalid date %v", raw)
	}
}

// ParseDate parses an RFC 3339 timestamp or a YYYY-MM-DD calendar date.
func ParseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	return t, nil
}
