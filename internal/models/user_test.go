package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidHandle(t *testing.T) {
	tests := []struct {
		name   string
		handle string
		want   bool
	}{
		{"real handle", "tourist", true},
		{"handle with digits", "user_123", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"none sentinel", "none", false},
		{"none uppercase", "NONE", false},
		{"none mixed case", "None", false},
		{"none padded", "  none  ", false},
		{"handle containing none", "nonexistent", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidHandle(tt.handle))
		})
	}
}

func TestNormalizeHandle(t *testing.T) {
	tests := []struct {
		name   string
		handle string
		want   string
	}{
		{"empty becomes none", "", HandleNone},
		{"whitespace becomes none", "  ", HandleNone},
		{"trims surrounding space", " tourist ", "tourist"},
		{"keeps real handle", "jiangly", "jiangly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHandle(tt.handle))
		})
	}
}
