package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator wraps a compiled JSON Schema that can validate any JSON
// payload. Load and LoadFile do not use it: a loaded Psych-DS schema
// document is not meta-validated.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schemaData (a JSON Schema document) against the
// standard JSON Schema draft 2020-12 metaschema bundled with the compiler.
func NewValidator(schemaData []byte) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	const virtualURL = "mem://schema.json"
	if err := compiler.AddResource(virtualURL, strings.NewReader(string(schemaData))); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(virtualURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// ValidateData validates an in-memory value against the schema and returns diagnostics.
func (v *Validator) ValidateData(data interface{}) ([]Diagnostic, error) {
	err := v.schema.Validate(data)
	if err == nil {
		return nil, nil
	}
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, err
	}
	return diagnosticsFromValidationError(validationErr, sourceValidator), nil
}

// ValidateJSON validates raw JSON bytes against the schema.
func (v *Validator) ValidateJSON(jsonData []byte) ([]Diagnostic, error) {
	var payload interface{}
	if err := json.Unmarshal(jsonData, &payload); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return v.ValidateData(payload)
}

// ValidateSchemaBytes compiles schemaBytes against the metaschema without
// keeping the result, reporting any structural errors in the schema document
// itself. The loader does not call it.
func ValidateSchemaBytes(schemaBytes []byte) ([]Diagnostic, error) {
	compiler := jsonschema.NewCompiler()
	const schemaURL = "mem://schema.json"
	if err := compiler.AddResource(schemaURL, strings.NewReader(string(schemaBytes))); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	if _, err := compiler.Compile(schemaURL); err == nil {
		return nil, nil
	} else if validationErr, ok := err.(*jsonschema.ValidationError); ok {
		return diagnosticsFromValidationError(validationErr, sourceValidator), nil
	} else {
		return nil, err
	}
}
