package schema

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SeverityLevel represents the diagnostic severity.
type SeverityLevel string

const (
	// SeverityError indicates a validation failure.
	SeverityError SeverityLevel = "ERROR"
	// SeverityWarn indicates a non-fatal warning.
	SeverityWarn SeverityLevel = "WARN"

	sourceValidator = "psychds-validator"
)

// Diagnostic captures a single cause of a meta-validation failure against
// the loaded Psych-DS schema document itself (not a dataset file): one
// node of the jsonschema library's validation-error tree, flattened.
type Diagnostic struct {
	Pointer  string        `json:"pointer"`
	Keyword  string        `json:"keyword"`
	Message  string        `json:"message"`
	Severity SeverityLevel `json:"severity"`
	Source   string        `json:"source"`
}

// diagnosticsFromValidationError flattens jsonschema's recursive Causes
// tree into a flat slice, breadth-first, so a caller can range over every
// failing subschema without walking the tree itself.
func diagnosticsFromValidationError(err *jsonschema.ValidationError, source string) []Diagnostic {
	if err == nil {
		return nil
	}

	var diags []Diagnostic
	stack := []*jsonschema.ValidationError{err}
	for len(stack) > 0 {
		current := stack[0]
		stack = stack[1:]

		diags = append(diags, Diagnostic{
			Pointer:  current.InstanceLocation,
			Keyword:  trimKeyword(current.KeywordLocation),
			Message:  current.Message,
			Severity: SeverityError,
			Source:   source,
		})

		stack = append(stack, current.Causes...)
	}
	return diags
}

func trimKeyword(keyword string) string {
	if idx := strings.IndexRune(keyword, '#'); idx >= 0 {
		return keyword[idx+1:]
	}
	return keyword
}
