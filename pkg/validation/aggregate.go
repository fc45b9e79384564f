package validation

import (
	"github.com/goliatone/go-formval/pkg/conditions"
	"github.com/goliatone/go-formval/pkg/schema"
)

// Aggregator validates every visible field of a form in one synchronous,
// side-effect-free pass. It backs submission and multi-step navigation
// gating.
type Aggregator struct {
	evaluator *conditions.Evaluator
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithEvaluator overrides the conditional rule evaluator.
func WithEvaluator(evaluator *conditions.Evaluator) AggregatorOption {
	return func(a *Aggregator) {
		if evaluator != nil {
			a.evaluator = evaluator
		}
	}
}

// NewAggregator constructs an Aggregator with a default evaluator.
func NewAggregator(options ...AggregatorOption) *Aggregator {
	a := &Aggregator{evaluator: conditions.New()}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// ValidateAll walks every section and field in declaration order, skips
// those that are hidden, disabled, or conditionally invisible under the
// current values, and collects every failure. The returned slice preserves
// field declaration order. A conditional rule that trips the evaluator's
// depth bound yields a single custom-type configuration error for that
// field instead of a hang.
func (a *Aggregator) ValidateAll(form schema.FormSchema, values map[string]any) []Error {
	var out []Error

	for _, section := range form.Sections {
		visible, err := a.evaluator.Evaluate(section.Conditional, values)
		if err != nil {
			out = append(out, *newError(sectionLabel(section), err.Error(), ErrorCustom))
			continue
		}
		if !visible {
			continue
		}

		for _, field := range section.Fields {
			ok, err := a.shouldValidate(field, values)
			if err != nil {
				out = append(out, *newError(field.Name, err.Error(), ErrorCustom))
				continue
			}
			if !ok {
				continue
			}
			if verr := Compile(field).Parse(values[field.Name]); verr != nil {
				out = append(out, *verr)
			}
		}
	}
	return out
}

// ShouldValidate reports whether a field participates in validation given
// the current values: hidden, disabled, and conditionally invisible fields
// are skipped so an invisible required field can never block submission.
func (a *Aggregator) ShouldValidate(field schema.FieldSchema, values map[string]any) bool {
	ok, _ := a.shouldValidate(field, values)
	return ok
}

func (a *Aggregator) shouldValidate(field schema.FieldSchema, values map[string]any) (bool, error) {
	if field.Hidden || field.Disabled {
		return false, nil
	}
	return a.evaluator.Evaluate(field.Conditional, values)
}

func sectionLabel(section schema.Section) string {
	if section.ID != "" {
		return section.ID
	}
	return section.Title
}

// ValidateAll is a convenience over a default Aggregator.
func ValidateAll(form schema.FormSchema, values map[string]any) []Error {
	return NewAggregator().ValidateAll(form, values)
}
