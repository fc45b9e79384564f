package schema

import "time"

// Operator enumerates the comparisons a conditional rule can apply.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
)

// Logic selects how a rule combines its own comparison with nested rules.
type Logic string

const (
	LogicAnd Logic = "and"
	LogicOr  Logic = "or"
)

// ConditionalRule is a tree expression resolving a field or section's
// visibility from other field values. Rules recurses; Logic defaults to
// "and" when empty. A field must never reference itself, directly or
// transitively, in its own conditional; ValidateForm rejects such schemas
// and the evaluator additionally bounds recursion depth at runtime.
type ConditionalRule struct {
	Field    string            `json:"field" yaml:"field"`
	Operator Operator          `json:"operator,omitempty" yaml:"operator,omitempty"`
	Value    any               `json:"value,omitempty" yaml:"value,omitempty"`
	Rules    []ConditionalRule `json:"rules,omitempty" yaml:"rules,omitempty"`
	Logic    Logic             `json:"logic,omitempty" yaml:"logic,omitempty"`
}

// References collects every field name the rule tree reads, in first-seen
// order.
func (r ConditionalRule) References() []string {
	seen := make(map[string]struct{})
	var out []string
	var walk func(rule ConditionalRule)
	walk = func(rule ConditionalRule) {
		if rule.Field != "" {
			if _, ok := seen[rule.Field]; !ok {
				seen[rule.Field] = struct{}{}
				out = append(out, rule.Field)
			}
		}
		for _, nested := range rule.Rules {
			walk(nested)
		}
	}
	walk(r)
	return out
}

// ValidationRule is the closed set of per-type constraint blocks. Which
// variant a field carries is determined by its Type: string-like fields use
// StringRule, number fields NumberRule, date fields DateRule, and
// option-backed fields SelectRule.
type ValidationRule interface {
	// IsRequired reports whether absent input should be rejected.
	IsRequired() bool
	// CustomMessage returns the author-supplied message override, if any.
	CustomMessage() string
}

// StringRule constrains text, email, and textarea fields.
type StringRule struct {
	Required  bool   `json:"required,omitempty" yaml:"required,omitempty"`
	MinLength *int   `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Format    string `json:"format,omitempty" yaml:"format,omitempty"`
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`
}

func (r StringRule) IsRequired() bool      { return r.Required }
func (r StringRule) CustomMessage() string { return r.Message }

// NumberRule constrains number fields.
type NumberRule struct {
	Required bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Min      *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Integer  bool     `json:"integer,omitempty" yaml:"integer,omitempty"`
	Message  string   `json:"message,omitempty" yaml:"message,omitempty"`
}

func (r NumberRule) IsRequired() bool      { return r.Required }
func (r NumberRule) CustomMessage() string { return r.Message }

// DateRule constrains date fields. Bounds compare as instants.
type DateRule struct {
	Required bool       `json:"required,omitempty" yaml:"required,omitempty"`
	MinDate  *time.Time `json:"minDate,omitempty" yaml:"minDate,omitempty"`
	MaxDate  *time.Time `json:"maxDate,omitempty" yaml:"maxDate,omitempty"`
	Message  string     `json:"message,omitempty" yaml:"message,omitempty"`
}

func (r DateRule) IsRequired() bool      { return r.Required }
func (r DateRule) CustomMessage() string { return r.Message }

// SelectRule constrains select, radio, and checkbox fields. MinItems and
// MaxItems apply only when the field accepts multiple values.
type SelectRule struct {
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
	MinItems *int   `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems *int   `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	Message  string `json:"message,omitempty" yaml:"message,omitempty"`
}

func (r SelectRule) IsRequired() bool      { return r.Required }
func (r SelectRule) CustomMessage() string { return r.Message }

// Format values recognised by StringRule.
const (
	FormatEmail = "email"
	FormatURL   = "url"
)
