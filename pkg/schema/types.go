package schema

// FieldType enumerates the input kinds a form field can declare.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
)

// Valid reports whether the field type is one of the supported kinds.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypeNumber, FieldTypeDate,
		FieldTypeTextarea, FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox:
		return true
	}
	return false
}

// Option is a single selectable choice for select, radio, and checkbox
// group fields.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
}

// FieldSchema describes one form input. Identity is Name, which doubles as
// the key into the live value map; Name must be unique within a form.
// FieldSchema values are immutable once loaded.
type FieldSchema struct {
	ID          string           `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string           `json:"name" yaml:"name"`
	Label       string           `json:"label,omitempty" yaml:"label,omitempty"`
	Type        FieldType        `json:"type" yaml:"type"`
	Placeholder string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Default     any              `json:"default,omitempty" yaml:"default,omitempty"`
	Options     []Option         `json:"options,omitempty" yaml:"options,omitempty"`
	Multiple    bool             `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	Hidden      bool             `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Disabled    bool             `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	ReadOnly    bool             `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Conditional *ConditionalRule `json:"conditional,omitempty" yaml:"conditional,omitempty"`
	Validation  ValidationRule   `json:"validation,omitempty" yaml:"-"`
}

// DisplayLabel returns the label renderers and error messages should use,
// falling back to the field name when no label was declared.
func (f FieldSchema) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// HasOption reports whether value matches one of the field's declared
// option values.
func (f FieldSchema) HasOption(value any) bool {
	for _, opt := range f.Options {
		if looseEqual(opt.Value, value) {
			return true
		}
	}
	return false
}

// Section groups fields into one step of a multi-step form. A section may
// carry its own visibility rule; an invisible section hides every field in
// it.
type Section struct {
	ID          string           `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string           `json:"title,omitempty" yaml:"title,omitempty"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Conditional *ConditionalRule `json:"conditional,omitempty" yaml:"conditional,omitempty"`
	Fields      []FieldSchema    `json:"fields" yaml:"fields"`
}

// FormSchema is the top-level declarative form description.
type FormSchema struct {
	ID          string    `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string    `json:"title,omitempty" yaml:"title,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Sections    []Section `json:"sections" yaml:"sections"`
}

// Fields returns every field in declaration order, flattened across
// sections.
func (s FormSchema) Fields() []FieldSchema {
	var out []FieldSchema
	for _, section := range s.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

// Field looks up a field by name.
func (s FormSchema) Field(name string) (FieldSchema, bool) {
	for _, section := range s.Sections {
		for _, field := range section.Fields {
			if field.Name == name {
				return field, true
			}
		}
	}
	return FieldSchema{}, false
}

// looseEqual compares option values the way decoded documents produce them:
// ints and floats that denote the same number are treated as equal, since
// YAML and JSON decoders disagree on the concrete numeric type.
func looseEqual(a, b any) bool {
	if a == b {
		return true
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	return aok && bok && af == bf
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
