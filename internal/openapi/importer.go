package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-formval/pkg/openapi"
	"github.com/goliatone/go-formval/pkg/schema"
)

// Importer implements pkgopenapi.Importer using kin-openapi.
type Importer struct {
	options pkgopenapi.ImporterOptions
}

// Ensure the implementation satisfies the public interface.
var _ pkgopenapi.Importer = (*Importer)(nil)

// New constructs an Importer with the given options.
func New(options pkgopenapi.ImporterOptions) *Importer {
	if options.Labeler == nil {
		options.Labeler = pkgopenapi.DefaultLabeler
	}
	return &Importer{options: options}
}

// Import locates the operation and converts its JSON request body into a
// single-section FormSchema.
func (i *Importer) Import(ctx context.Context, doc schema.Document, operationID string) (schema.FormSchema, error) {
	if err := ctx.Err(); err != nil {
		return schema.FormSchema{}, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return schema.FormSchema{}, errors.New("openapi importer: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return schema.FormSchema{}, fmt.Errorf("openapi importer: load document: %w", err)
	}
	if i.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return schema.FormSchema{}, fmt.Errorf("openapi importer: validate: %w", err)
		}
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return schema.FormSchema{}, fmt.Errorf("openapi importer: operation %q not found", operationID)
	}

	body := requestBodySchema(operation)
	if body == nil {
		return schema.FormSchema{}, fmt.Errorf("openapi importer: operation %q has no JSON request body", operationID)
	}

	fields, err := i.fieldsFromObject(body)
	if err != nil {
		return schema.FormSchema{}, err
	}

	form := schema.FormSchema{
		ID:          operationID,
		Title:       operation.Summary,
		Description: operation.Description,
		Sections: []schema.Section{{
			ID:     "main",
			Fields: fields,
		}},
	}
	if err := schema.ValidateForm(form); err != nil {
		return schema.FormSchema{}, fmt.Errorf("openapi importer: imported form: %w", err)
	}
	return form, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestBodySchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	media := operation.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}
	return media.Schema.Value
}

func (i *Importer) fieldsFromObject(body *openapi3.Schema) ([]schema.FieldSchema, error) {
	requiredSet := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		requiredSet[name] = struct{}{}
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []schema.FieldSchema
	for _, name := range names {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		_, required := requiredSet[name]
		field, ok := i.fieldFromProperty(name, ref.Value, required)
		if !ok {
			// Nested objects have no flat-field representation; skip them.
			continue
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return nil, errors.New("openapi importer: request body yields no fields")
	}
	return fields, nil
}

func (i *Importer) fieldFromProperty(name string, prop *openapi3.Schema, required bool) (schema.FieldSchema, bool) {
	field := schema.FieldSchema{
		Name:        name,
		Label:       i.options.Labeler(name),
		Description: prop.Description,
		Default:     prop.Default,
	}

	switch {
	case len(prop.Enum) > 0:
		field.Type = schema.FieldTypeSelect
		field.Options = optionsFromEnum(prop.Enum, i.options.Labeler)
		field.Validation = schema.SelectRule{Required: required}
	case prop.Type.Is(openapi3.TypeString):
		field.Type = stringFieldType(prop.Format)
		if field.Type == schema.FieldTypeDate {
			field.Validation = schema.DateRule{Required: required}
		} else {
			field.Validation = stringRule(prop, required)
		}
	case prop.Type.Is(openapi3.TypeInteger), prop.Type.Is(openapi3.TypeNumber):
		field.Type = schema.FieldTypeNumber
		field.Validation = numberRule(prop, required)
	case prop.Type.Is(openapi3.TypeBoolean):
		field.Type = schema.FieldTypeCheckbox
		field.Validation = schema.SelectRule{Required: required}
	case prop.Type.Is(openapi3.TypeArray):
		return i.fieldFromArray(field, prop, required)
	default:
		return schema.FieldSchema{}, false
	}
	return field, true
}

func (i *Importer) fieldFromArray(field schema.FieldSchema, prop *openapi3.Schema, required bool) (schema.FieldSchema, bool) {
	if prop.Items == nil || prop.Items.Value == nil || len(prop.Items.Value.Enum) == 0 {
		return schema.FieldSchema{}, false
	}

	field.Type = schema.FieldTypeSelect
	field.Multiple = true
	field.Options = optionsFromEnum(prop.Items.Value.Enum, i.options.Labeler)

	rule := schema.SelectRule{Required: required}
	if prop.MinItems > 0 {
		min := int(prop.MinItems)
		rule.MinItems = &min
	}
	if prop.MaxItems != nil {
		max := int(*prop.MaxItems)
		rule.MaxItems = &max
	}
	field.Validation = rule
	return field, true
}

func stringFieldType(format string) schema.FieldType {
	switch format {
	case "email":
		return schema.FieldTypeEmail
	case "date", "date-time":
		return schema.FieldTypeDate
	default:
		return schema.FieldTypeText
	}
}

func stringRule(prop *openapi3.Schema, required bool) schema.ValidationRule {
	rule := schema.StringRule{Required: required, Pattern: prop.Pattern}
	if prop.MinLength > 0 {
		min := int(prop.MinLength)
		rule.MinLength = &min
	}
	if prop.MaxLength != nil {
		max := int(*prop.MaxLength)
		rule.MaxLength = &max
	}
	switch prop.Format {
	case "email":
		rule.Format = schema.FormatEmail
	case "uri", "url":
		rule.Format = schema.FormatURL
	}
	return rule
}

func numberRule(prop *openapi3.Schema, required bool) schema.ValidationRule {
	rule := schema.NumberRule{
		Required: required,
		Integer:  prop.Type.Is(openapi3.TypeInteger),
	}
	if prop.Min != nil {
		min := *prop.Min
		rule.Min = &min
	}
	if prop.Max != nil {
		max := *prop.Max
		rule.Max = &max
	}
	return rule
}

func optionsFromEnum(enum []any, labeler func(string) string) []schema.Option {
	options := make([]schema.Option, 0, len(enum))
	for _, value := range enum {
		label := fmt.Sprint(value)
		if s, ok := value.(string); ok {
			label = labeler(s)
		}
		options = append(options, schema.Option{Label: label, Value: value})
	}
	return options
}
