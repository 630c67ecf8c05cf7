package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Vol. 1 Ch. 2 - Start", want: "Vol. 1 Ch. 2 - Start"},
		{in: "What?: A <Story>", want: "What A Story"},
		{in: " ..trailing dots.. ", want: "trailing dots"},
		{in: `a/b\c|d*e"f`, want: "abcdef"},
		{in: "Chapter : One", want: "Chapter One"},
		{in: "line\nbreak\ttab", want: "line break tab"},
		{in: "..", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.in))
		})
	}
}
