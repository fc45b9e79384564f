package schema

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// sanitizeForm strips markup from every author-supplied string that can end
// up in user-facing output. Labels flow verbatim into generated error
// messages, so they are treated as plain text.
func sanitizeForm(form *FormSchema) {
	form.Title = sanitizeText(form.Title)
	form.Description = sanitizeText(form.Description)

	for si := range form.Sections {
		section := &form.Sections[si]
		section.Title = sanitizeText(section.Title)
		section.Description = sanitizeText(section.Description)

		for fi := range section.Fields {
			field := &section.Fields[fi]
			field.Label = sanitizeText(field.Label)
			field.Placeholder = sanitizeText(field.Placeholder)
			field.Description = sanitizeText(field.Description)
			for oi := range field.Options {
				field.Options[oi].Label = sanitizeText(field.Options[oi].Label)
			}
			field.Validation = sanitizeRuleMessage(field.Validation)
		}
	}
}

func sanitizeRuleMessage(rule ValidationRule) ValidationRule {
	switch r := rule.(type) {
	case StringRule:
		r.Message = sanitizeText(r.Message)
		return r
	case NumberRule:
		r.Message = sanitizeText(r.Message)
		return r
	case DateRule:
		r.Message = sanitizeText(r.Message)
		return r
	case SelectRule:
		r.Message = sanitizeText(r.Message)
		return r
	}
	return rule
}

func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(textSanitizer().Sanitize(trimmed))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
