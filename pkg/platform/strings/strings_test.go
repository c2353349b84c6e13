package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrimLower(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{name: "case-insensitive duplicates", input: []string{"Fruity", "fruity", "FRUITY"}, expected: []string{"fruity"}},
		{name: "trims and drops blanks", input: []string{"  Nutty ", "", "   ", "floral"}, expected: []string{"nutty", "floral"}},
		{name: "preserves first occurrence order", input: []string{"earthy", "sweet", "Earthy"}, expected: []string{"earthy", "sweet"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrimLower(tt.input))
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"Citrus", "Jasmine", "Honey"}, SplitAndTrim("Citrus, Jasmine ,, Honey", ","))
	assert.Equal(t, []string{}, SplitAndTrim("   ", ","))
	assert.Equal(t, []string{"Caramel"}, SplitAndTrim("Caramel", ","))
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Ethiopian Yirgacheffe":           "ethiopian-yirgacheffe",
		"Ethiopian Yirgacheffe (Washed)":  "ethiopian-yirgacheffe-washed",
		"  Earl   Grey  ":                 "earl-grey",
		"Hario V60 Pour-Over Kit":         "hario-v60-pourover-kit",
		"Matcha & Co.":                    "matcha-co",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}
