package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"José   Pérez!", "Jose_Perez"},
		{"  Ana Diaz  ", "Ana_Diaz"},
		{"Ana\tMaría\nDíaz", "Ana_Maria_Diaz"},
		{"a/b\\c:d*e?f", "abcdef"},
		{"report-2026.v1_final", "report-2026.v1_final"},
		{"Ñandú", "Nandu"},
		{"!!!", ""},
		{"   ", ""},
		{"", ""},
		{"日本語", ""},
		{"12.345.678-9", "12.345.678-9"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

func TestSanitizeOutputIsSafe(t *testing.T) {
	for _, in := range []string{"a b", "x<>|y", "Ålborg Ærø", "tab\there"} {
		for _, r := range Sanitize(in) {
			assert.True(t, isSafe(r), "unsafe rune %q from %q", r, in)
		}
	}
}
