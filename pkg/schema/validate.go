package schema

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	errNoSections   = errors.New("schema: form declares no sections")
	errFieldNoName  = errors.New("schema: field name is required")
	errFieldNoType  = errors.New("schema: field type is required")
	errOptionsEmpty = errors.New("schema: option-backed field declares no options")
)

// ValidateForm statically checks a decoded form: unique field names, known
// field types, declared options for option-backed fields, compilable
// patterns, resolvable conditional references, and the absence of
// conditional cycles. Loading rejects invalid forms so the evaluator and
// compiler can assume well-formed input.
func ValidateForm(form FormSchema) error {
	if len(form.Sections) == 0 {
		return errNoSections
	}

	byName := make(map[string]FieldSchema)
	for _, section := range form.Sections {
		for _, field := range section.Fields {
			if field.Name == "" {
				return errFieldNoName
			}
			if _, dup := byName[field.Name]; dup {
				return fmt.Errorf("schema: duplicate field name %q", field.Name)
			}
			byName[field.Name] = field

			if err := validateField(field); err != nil {
				return err
			}
		}
	}

	for _, section := range form.Sections {
		if section.Conditional != nil {
			if err := validateReferences(*section.Conditional, byName); err != nil {
				return err
			}
		}
		for _, field := range section.Fields {
			if field.Conditional == nil {
				continue
			}
			if err := validateReferences(*field.Conditional, byName); err != nil {
				return err
			}
		}
	}

	return detectConditionalCycles(byName)
}

func validateField(field FieldSchema) error {
	if field.Type == "" {
		return errFieldNoType
	}
	if !field.Type.Valid() {
		return fmt.Errorf("schema: field %q has unknown type %q", field.Name, field.Type)
	}

	switch field.Type {
	case FieldTypeSelect, FieldTypeRadio:
		if len(field.Options) == 0 {
			return fmt.Errorf("schema: field %q: %w", field.Name, errOptionsEmpty)
		}
	case FieldTypeCheckbox:
		// A single checkbox has no options; a checkbox group must.
		if field.Multiple && len(field.Options) == 0 {
			return fmt.Errorf("schema: field %q: %w", field.Name, errOptionsEmpty)
		}
	}

	if rule, ok := field.Validation.(StringRule); ok && rule.Pattern != "" {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			return fmt.Errorf("schema: field %q: invalid pattern: %w", field.Name, err)
		}
	}
	return nil
}

func validateReferences(rule ConditionalRule, fields map[string]FieldSchema) error {
	for _, name := range rule.References() {
		if _, ok := fields[name]; !ok {
			return fmt.Errorf("schema: conditional references unknown field %q", name)
		}
	}
	return nil
}

// detectConditionalCycles walks the dependency graph induced by field
// conditionals and rejects any field that can reach itself. A cycle would
// make visibility evaluation chase its own tail at runtime.
func detectConditionalCycles(fields map[string]FieldSchema) error {
	deps := make(map[string][]string, len(fields))
	for name, field := range fields {
		if field.Conditional != nil {
			deps[name] = field.Conditional.References()
		}
	}

	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make(map[string]int, len(deps))

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case inStack:
			return fmt.Errorf("schema: conditional cycle through field %q", name)
		case done:
			return nil
		}
		state[name] = inStack
		for _, dep := range deps[name] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}

	for name := range deps {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}
