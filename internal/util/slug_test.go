package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Forces and Motion":       "forces-and-motion",
		"  Work, Energy & Power ": "work-energy-power",
		"Ohm's Law":               "ohm-s-law",
		"Newton's 2nd Law!!":      "newton-s-2nd-law",
		"---":                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}
