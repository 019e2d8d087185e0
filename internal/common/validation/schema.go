package validation

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationResult reports the outcome of validating an input document.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// userPayloadSchema guards the create/update-user request body. Handles are
// optional; absent or empty handles are normalized to the "none" sentinel
// downstream.
const userPayloadSchema = `{
	"type": "object",
	"properties": {
		"name":             {"type": "string", "minLength": 1, "maxLength": 100},
		"email":            {"type": "string", "minLength": 3, "maxLength": 254, "pattern": "^[^\\s@]+@[^\\s@]+\\.[^\\s@]+$"},
		"codeforcesHandle": {"type": "string", "maxLength": 100},
		"leetcodeHandle":   {"type": "string", "maxLength": 100},
		"codechefHandle":   {"type": "string", "maxLength": 100}
	},
	"required": ["name", "email"],
	"additionalProperties": false
}`

// ValidateUserPayload validates a decoded user request body against the
// schema with per-field errors.
func ValidateUserPayload(input map[string]interface{}) (*ValidationResult, error) {
	schemaLoader := gojsonschema.NewStringLoader(userPayloadSchema)
	documentLoader := gojsonschema.NewGoLoader(input)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, err
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}, nil
	}

	out := &ValidationResult{Valid: false}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "(root)" {
			// gojsonschema reports required-field misses against the root.
			if prop, ok := desc.Details()["property"].(string); ok {
				field = prop
			}
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return out, nil
}

// Describe flattens a result's errors into one human-readable string.
func (r *ValidationResult) Describe() string {
	if r.Valid {
		return ""
	}
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return strings.Join(parts, "; ")
}
