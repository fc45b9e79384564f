package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	formval "github.com/goliatone/go-formval"
	"github.com/goliatone/go-formval/pkg/schema"
)

func main() {
	schemaPath := flag.String("schema", "form.yaml", "form schema path (YAML or JSON)")
	valuesPath := flag.String("values", "", "values file path (YAML or JSON)")
	operation := flag.String("operation", "", "import the schema from an OpenAPI document using this operation ID")
	flag.Parse()

	form, err := loadForm(*schemaPath, *operation)
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}

	values, err := loadValues(*valuesPath, form)
	if err != nil {
		log.Fatalf("Failed to load values: %v", err)
	}

	errs := formval.ValidateAll(form, values)
	if len(errs) == 0 {
		fmt.Printf("%s: all visible fields valid\n", title(form))
		return
	}

	fmt.Printf("%s: %d validation error(s)\n", title(form), len(errs))
	for _, verr := range errs {
		fmt.Printf("  %-20s %-10s %s\n", verr.Field, verr.Type, verr.Message)
	}
	os.Exit(1)
}

func loadForm(path, operation string) (formval.FormSchema, error) {
	if operation == "" {
		return formval.LoadForm(schema.SourceFromFile(path), nil)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return formval.FormSchema{}, err
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(path), raw)
	if err != nil {
		return formval.FormSchema{}, err
	}
	return formval.NewImporter().Import(context.Background(), doc, operation)
}

func loadValues(path string, form formval.FormSchema) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	values := make(map[string]any)
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("decode values: %w", err)
	}
	return coerceDates(form, values), nil
}

// coerceDates converts string input for date fields into time.Time; the
// compiled validators expect real date values, the same shape a host input
// layer would hand the engine.
func coerceDates(form formval.FormSchema, values map[string]any) map[string]any {
	for _, field := range form.Fields() {
		if field.Type != schema.FieldTypeDate {
			continue
		}
		raw, ok := values[field.Name].(string)
		if !ok || raw == "" {
			continue
		}
		if when, err := schema.ParseDate(raw); err == nil {
			values[field.Name] = when
		}
	}
	return values
}

func title(form formval.FormSchema) string {
	if form.Title != "" {
		return form.Title
	}
	if form.ID != "" {
		return form.ID
	}
	return "form"
}
