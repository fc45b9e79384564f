// Package openapi imports OpenAPI 3 operations as declarative form
// schemas: request-body properties become fields, schema constraints
// become validation rules, and enums become select options.
package openapi

import (
	"context"

	"github.com/goliatone/go-formval/pkg/schema"
)

// Importer converts one OpenAPI operation into a FormSchema.
type Importer interface {
	Import(ctx context.Context, doc schema.Document, operationID string) (schema.FormSchema, error)
}

// ImporterOptions configures import behaviour.
type ImporterOptions struct {
	// Labeler derives a display label from a property name. Defaults to
	// DefaultLabeler.
	Labeler func(name string) string
	// ResolveReferences validates the document and resolves $ref entries
	// before import.
	ResolveReferences bool
}

// ImporterOption mutates ImporterOptions.
type ImporterOption func(*ImporterOptions)

// WithLabeler overrides label derivation.
func WithLabeler(fn func(name string) string) ImporterOption {
	return func(o *ImporterOptions) {
		if fn != nil {
			o.Labeler = fn
		}
	}
}

// WithResolveReferences toggles reference resolution.
func WithResolveReferences(enabled bool) ImporterOption {
	return func(o *ImporterOptions) {
		o.ResolveReferences = enabled
	}
}

// NewImporterOptions applies options over defaults.
func NewImporterOptions(options ...ImporterOption) ImporterOptions {
	opts := ImporterOptions{
		Labeler:           DefaultLabeler,
		ResolveReferences: true,
	}
	for _, opt := range options {
		opt(&opts)
	}
	return opts
}
