package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaturalCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"9", "10", -1},
		{"10", "9", 1},
		{"10", "10.5", -1},
		{"10.5", "11", -1},
		{"10.5", "10.10", -1},
		{"007", "7", 0},
		{"Extra 2", "extra 10", -1},
		{"1", "1", 0},
		{"", "1", -1},
		{"a", "1", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NaturalCompare(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}
