package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIngredientName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercases", input: "Sea Salt", expected: "sea salt"},
		{name: "hyphen becomes space", input: "Sea-Salt", expected: "sea salt"},
		{name: "underscore becomes space", input: "sea_salt", expected: "sea salt"},
		{name: "collapses runs", input: "sea  -  salt", expected: "sea salt"},
		{name: "strips punctuation", input: "chef's salt!", expected: "chefs salt"},
		{name: "trims", input: "  salt  ", expected: "salt"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeIngredientName(tt.input))
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "paella valenciana", NormalizeTitle("  Paella   Valenciana "))
}

func TestApplyChain(t *testing.T) {
	got := ApplyChain("  Sea Salt! ", "trim", "lowercase", "remove_punctuation")
	assert.Equal(t, "sea salt", got)
}

func TestApply_UnknownNormalizerIsIdentity(t *testing.T) {
	assert.Equal(t, "Sea Salt", Apply("Sea Salt", "bogus"))
}

func TestGet(t *testing.T) {
	fn, ok := Get("lowercase")
	assert.True(t, ok)
	assert.Equal(t, "abc", fn("ABC"))

	_, ok = Get("missing")
	assert.False(t, ok)
}
