package validation

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/goliatone/go-formval/pkg/schema"
)

// Validator is an executable check derived from a field description. Parse
// returns nil when the value passes and a single Error describing the first
// failed constraint otherwise.
type Validator interface {
	Parse(value any) *Error
}

// ValidatorFunc adapts a function into a Validator.
type ValidatorFunc func(value any) *Error

// Parse calls the underlying function.
func (fn ValidatorFunc) Parse(value any) *Error {
	return fn(value)
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Compile maps a field description onto an executable validator. Hidden and
// disabled fields compile to an always-pass validator; conditional
// visibility depends on live values and is the caller's concern (see
// ShouldValidate). Compiling the same field twice yields validators with
// identical behavior.
func Compile(field schema.FieldSchema) Validator {
	if field.Hidden || field.Disabled {
		return ValidatorFunc(func(any) *Error { return nil })
	}

	base := baseValidator(field)
	return recovered(field, requireWrap(field, base))
}

// requireWrap is the single required/optional decorator applied after every
// type-specific validator. Absent input (nil, empty string, empty slice)
// short-circuits: rejected when the field is required, accepted otherwise.
func requireWrap(field schema.FieldSchema, base Validator) Validator {
	rule := field.Validation
	required := rule != nil && rule.IsRequired()

	return ValidatorFunc(func(value any) *Error {
		if isAbsent(value) {
			if required {
				return newError(field.Name, requiredMessage(field), ErrorRequired)
			}
			return nil
		}
		return base.Parse(value)
	})
}

// recovered converts panics out of malformed rules or misbehaving custom
// checks into a single custom-type error instead of unwinding into the
// renderer.
func recovered(field schema.FieldSchema, inner Validator) Validator {
	return ValidatorFunc(func(value any) (verr *Error) {
		defer func() {
			if r := recover(); r != nil {
				verr = newError(field.Name, fmt.Sprintf("%s could not be validated: %v", field.DisplayLabel(), r), ErrorCustom)
			}
		}()
		return inner.Parse(value)
	})
}

func baseValidator(field schema.FieldSchema) Validator {
	switch field.Type {
	case schema.FieldTypeText, schema.FieldTypeEmail, schema.FieldTypeTextarea:
		return stringValidator(field)
	case schema.FieldTypeNumber:
		return numberValidator(field)
	case schema.FieldTypeDate:
		return dateValidator(field)
	case schema.FieldTypeSelect, schema.FieldTypeRadio:
		return optionValidator(field)
	case schema.FieldTypeCheckbox:
		return checkboxValidator(field)
	default:
		return ValidatorFunc(func(any) *Error {
			return newError(field.Name, fmt.Sprintf("%s has an unsupported field type %q", field.DisplayLabel(), field.Type), ErrorCustom)
		})
	}
}

func stringValidator(field schema.FieldSchema) Validator {
	rule, _ := field.Validation.(schema.StringRule)
	label := field.DisplayLabel()

	// Load-time validation compiles the pattern already, but hand-built
	// fields can still carry a broken one; the compile error surfaces at
	// parse time as a custom error instead of panicking here.
	var pattern *regexp.Regexp
	var patternErr error
	if rule.Pattern != "" {
		pattern, patternErr = regexp.Compile(rule.Pattern)
	}

	checkEmail := field.Type == schema.FieldTypeEmail || rule.Format == schema.FormatEmail

	return ValidatorFunc(func(value any) *Error {
		if patternErr != nil {
			return newError(field.Name, fmt.Sprintf("%s could not be validated: %v", label, patternErr), ErrorCustom)
		}
		text, ok := value.(string)
		if !ok {
			return newError(field.Name, fmt.Sprintf("%s must be text", label), ErrorCustom)
		}

		if rule.MinLength != nil && len([]rune(text)) < *rule.MinLength {
			return ruleError(field, rule.Message,
				fmt.Sprintf("%s must be at least %d characters", label, *rule.MinLength), ErrorMin)
		}
		if rule.MaxLength != nil && len([]rune(text)) > *rule.MaxLength {
			return ruleError(field, rule.Message,
				fmt.Sprintf("%s must be at most %d characters", label, *rule.MaxLength), ErrorMax)
		}
		if pattern != nil && !pattern.MatchString(text) {
			return ruleError(field, rule.Message,
				fmt.Sprintf("%s format is invalid", label), ErrorPattern)
		}
		if checkEmail && !emailPattern.MatchString(text) {
			return ruleError(field, rule.Message,
				fmt.Sprintf("%s must be a valid email address", label), ErrorFormat)
		}
		if rule.Format == schema.FormatURL && !validURL(text) {
			return ruleError(field, rule.Message,
				fmt.Sprintf("%s must be a valid URL", label), ErrorFormat)
		}
		return nil
	})
}

func numberValidator(field schema.FieldSchema) Validator {
	rule, _ := field.Validation.(schema.NumberRule)
	label := field.DisplayLabel()

	return ValidatorFunc(func(value any) *Error {
		num, ok := numericValue(value)
		if !ok {
			return newError(field.Name, fmt.Sprintf("%s must be a number", label), ErrorCustom)
		}

		if rule.Min != nil && num < *rule.Min {
			return ruleError(field, rule.Message,
				fmt.Sprintf("%s must be at least %s", label, formatNumber(*rule.Min)), ErrorMin)
		}
		if rule.Max != nil && num > *rule.Max {
			return ruleError(field, rule.Message,
				fmt.Sprintf("%s must be at most %s", label, formatNumber(*rule.Max)), ErrorMax)
		}
		if rule.Integer && num != math.Trunc(num) {
			return ruleError(field, rule.Message,
				fmt.Sprintf("%s must be a whole number", label), ErrorFormat)
		}
		return nil
	})
}

func dateValidator(field schema.FieldSchema) Validator {
	rule, _ := field.Validation.(schema.DateRule)
	label := field.DisplayLabel()

	return ValidatorFunc(func(value any) *Error {
		when, ok := value.(time.Time)
		if !ok {
			return newError(field.Name, fmt.Sprintf("%s must be a date", label), ErrorCustom)
		}

		if rule.MinDate != nil && when.Before(*rule.MinDate) {
			return ruleError(field, rule.Message,
				fmt.Sprintf("%s must be on or after %s", label, rule.MinDate.Format("2006-01-02")), ErrorMin)
		}
		if rule.MaxDate != nil && when.After(*rule.MaxDate) {
			return ruleError(field, rule.Message,
				fmt.Sprintf("%s must be on or before %s", label, rule.MaxDate.Format("2006-01-02")), ErrorMax)
		}
		return nil
	})
}

func optionValidator(field schema.FieldSchema) Validator {
	rule, _ := field.Validation.(schema.SelectRule)
	label := field.DisplayLabel()

	if field.Multiple {
		return multiOptionValidator(field, rule)
	}

	return ValidatorFunc(func(value any) *Error {
		if !field.HasOption(value) {
			return ruleError(field, rule.Message,
				fmt.Sprintf("%s has an invalid selection", label), ErrorCustom)
		}
		return nil
	})
}

func multiOptionValidator(field schema.FieldSchema, rule schema.SelectRule) Validator {
	label := field.DisplayLabel()

	return ValidatorFunc(func(value any) *Error {
		items, ok := asSlice(value)
		if !ok {
			return newError(field.Name, fmt.Sprintf("%s must be a list of selections", label), ErrorCustom)
		}

		for _, item := range items {
			if !field.HasOption(item) {
				return ruleError(field, rule.Message,
					fmt.Sprintf("%s has an invalid selection", label), ErrorCustom)
			}
		}
		if rule.MinItems != nil && len(items) < *rule.MinItems {
			return ruleError(field, rule.Message,
				fmt.Sprintf("select at least %d options for %s", *rule.MinItems, label), ErrorMin)
		}
		if rule.MaxItems != nil && len(items) > *rule.MaxItems {
			return ruleError(field, rule.Message,
				fmt.Sprintf("select at most %d options for %s", *rule.MaxItems, label), ErrorMax)
		}
		return nil
	})
}

func checkboxValidator(field schema.FieldSchema) Validator {
	rule, _ := field.Validation.(schema.SelectRule)
	label := field.DisplayLabel()

	// A checkbox group behaves like a multi-select over its options.
	if len(field.Options) > 0 {
		return multiOptionValidator(field, rule)
	}

	return ValidatorFunc(func(value any) *Error {
		checked, ok := value.(bool)
		if !ok {
			return newError(field.Name, fmt.Sprintf("%s must be a boolean", label), ErrorCustom)
		}
		if rule.Required && !checked {
			return ruleError(field, rule.Message, requiredMessage(field), ErrorRequired)
		}
		return nil
	})
}

func ruleError(field schema.FieldSchema, custom, fallback string, kind ErrorType) *Error {
	if custom != "" {
		return newError(field.Name, custom, kind)
	}
	return newError(field.Name, fallback, kind)
}

func requiredMessage(field schema.FieldSchema) string {
	if field.Validation != nil {
		if msg := field.Validation.CustomMessage(); msg != "" {
			return msg
		}
	}
	return field.DisplayLabel() + " is required"
}

// isAbsent reports whether the host supplied no usable input: nil, an empty
// string, or an empty list.
func isAbsent(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		if items, ok := asSlice(value); ok {
			return len(items) == 0
		}
		return false
	}
}

func asSlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func numericValue(value any) (float64, bool) {
	switch n := value.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) {
		return fmt.Sprintf("%d", int64(f))
	}
	return strings.TrimRight(fmt.Sprintf("%f", f), "0")
}

func validURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}
