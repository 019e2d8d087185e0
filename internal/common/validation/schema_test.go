package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUserPayload(t *testing.T) {
	tests := []struct {
		name      string
		input     map[string]interface{}
		wantValid bool
		wantField string
	}{
		{
			name: "full valid payload",
			input: map[string]interface{}{
				"name":             "Ada Lovelace",
				"email":            "ada@example.com",
				"codeforcesHandle": "ada_cf",
				"leetcodeHandle":   "ada_lc",
				"codechefHandle":   "ada_cc",
			},
			wantValid: true,
		},
		{
			name: "handles optional",
			input: map[string]interface{}{
				"name":  "Ada",
				"email": "ada@example.com",
			},
			wantValid: true,
		},
		{
			name: "missing name",
			input: map[string]interface{}{
				"email": "ada@example.com",
			},
			wantValid: false,
			wantField: "name",
		},
		{
			name: "missing email",
			input: map[string]interface{}{
				"name": "Ada",
			},
			wantValid: false,
			wantField: "email",
		},
		{
			name: "malformed email",
			input: map[string]interface{}{
				"name":  "Ada",
				"email": "not an email",
			},
			wantValid: false,
			wantField: "email",
		},
		{
			name: "empty name",
			input: map[string]interface{}{
				"name":  "",
				"email": "ada@example.com",
			},
			wantValid: false,
			wantField: "name",
		},
		{
			name: "unknown field rejected",
			input: map[string]interface{}{
				"name":   "Ada",
				"email":  "ada@example.com",
				"rating": 9000,
			},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateUserPayload(tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantValid {
				assert.Empty(t, result.Errors)
				return
			}
			require.NotEmpty(t, result.Errors)
			if tt.wantField != "" {
				fields := make([]string, 0, len(result.Errors))
				for _, e := range result.Errors {
					fields = append(fields, e.Field)
				}
				assert.Contains(t, fields, tt.wantField)
			}
			assert.NotEmpty(t, result.Describe())
		})
	}
}
