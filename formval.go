package formval

import (
	"io/fs"

	internalopenapi "github.com/goliatone/go-formval/internal/openapi"
	"github.com/goliatone/go-formval/pkg/conditions"
	pkgopenapi "github.com/goliatone/go-formval/pkg/openapi"
	"github.com/goliatone/go-formval/pkg/realtime"
	"github.com/goliatone/go-formval/pkg/schema"
	"github.com/goliatone/go-formval/pkg/validation"
)

// Re-exported aliases so common integrations only import the root package.
type (
	// FormSchema is the declarative form description.
	FormSchema = schema.FormSchema
	// FieldSchema describes one form input.
	FieldSchema = schema.FieldSchema
	// ConditionalRule decides a field or section's visibility.
	ConditionalRule = schema.ConditionalRule
	// ValidationError describes one failed constraint.
	ValidationError = validation.Error
	// Validator is an executable check compiled from a field.
	Validator = validation.Validator
)

// LoadForm reads, decodes, sanitizes, and statically validates a form
// document from a file path or an fs.FS entry.
func LoadForm(src schema.Source, fsys fs.FS) (FormSchema, error) {
	return schema.Load(src, fsys)
}

// Compile derives an executable validator from a field description.
func Compile(field FieldSchema) Validator {
	return validation.Compile(field)
}

// ValidateAll validates every visible field against the current values and
// returns the failures in field declaration order.
func ValidateAll(form FormSchema, values map[string]any) []ValidationError {
	return validation.ValidateAll(form, values)
}

// EvaluateVisible resolves a conditional rule tree against the current
// values. A nil rule means visible.
func EvaluateVisible(rule *ConditionalRule, values map[string]any) bool {
	return conditions.New().Visible(rule, values)
}

// NewController wires a real-time validation controller for one field.
func NewController(field FieldSchema, validate realtime.ValidateFunc, options ...realtime.Option) *realtime.Controller {
	return realtime.NewController(field, validate, options...)
}

// NewImporter constructs an OpenAPI importer backed by the internal
// implementation while keeping the concrete type hidden from consumers.
func NewImporter(options ...pkgopenapi.ImporterOption) pkgopenapi.Importer {
	cfg := pkgopenapi.NewImporterOptions(options...)
	return internalopenapi.New(cfg)
}
