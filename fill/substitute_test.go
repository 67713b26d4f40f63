package fill

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstitute(t *testing.T) {
	table := Table{"name": "Ana", "apellido": "Diaz", "empty": ""}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"simple", "Hello [[Name]]", "Hello Ana"},
		{"inner whitespace", "Hello [[  Name  ]]!", "Hello Ana!"},
		{"case and hash", "[[#NAME]] [[APELLIDO]]", "Ana Diaz"},
		{"repeated", "[[name]]/[[name]]", "Ana/Ana"},
		{"empty value", "<[[empty]]>", "<>"},
		{"unknown kept", "Hello [[Unknown]]", "Hello [[Unknown]]"},
		{"mixed", "[[x]] [[name]] [[ y ]]", "[[x]] Ana [[ y ]]"},
		{"no placeholders", "plain text", "plain text"},
		{"single brackets", "[name] [[name]", "[name] [[name]"},
		{"blank key", "[[   ]]", "[[   ]]"},
		{"adjacent", "[[name]][[apellido]]", "AnaDiaz"},
		{"multiline key", "[[\nname\n]]", "Ana"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Substitute(tt.text, table)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubstituteUnknownWithEmptyTable(t *testing.T) {
	got, res := Substitute("Hello [[Unknown]]", Table{})
	assert.Equal(t, "Hello [[Unknown]]", got)
	assert.Equal(t, []string{"Unknown"}, res.Unmatched)
	assert.Empty(t, res.Replaced)
}

func TestSubstituteSinglePass(t *testing.T) {
	table := Table{"a": "[[b]]", "b": "boom"}

	got, res := Substitute("[[a]]", table)

	assert.Equal(t, "[[b]]", got)
	assert.Equal(t, []string{"a"}, res.Replaced)
}

func TestSubstituteResult(t *testing.T) {
	table := Table{"nombre": "Ana"}

	_, res := Substitute("[[Nombre]] [[nombre]] [[RUN]] [[RUN]] [[Region]]", table)

	assert.Equal(t, []string{"Nombre", "nombre"}, res.Replaced)
	assert.Equal(t, []string{"RUN", "Region"}, res.Unmatched)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "B c", "a"}, Keys("[[a]] and [[ B c ]] [[a]]"))
	assert.Empty(t, Keys("nothing here"))
}
