package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripDiacritics(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"José", "Jose"},
		{"Pérez Ñuñez", "Perez Nunez"},
		{"Ça va à l'école", "Ca va a l'ecole"},
		{"Müller", "Muller"},
		{"plain 123 !?", "plain 123 !?"},
		{"", ""},
		{"Øre", "Øre"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripDiacritics(tt.input))
		})
	}
}

func TestStripDiacriticsComposedAndDecomposed(t *testing.T) {
	composed := "Jos\u00e9 P\u00e9rez"
	decomposed := "Jose\u0301 Pe\u0301rez"

	assert.NotEqual(t, composed, decomposed)
	assert.Equal(t, StripDiacritics(composed), StripDiacritics(decomposed))
	assert.Equal(t, "Jose Perez", StripDiacritics(decomposed))
}
