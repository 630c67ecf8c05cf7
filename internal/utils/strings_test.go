package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPadLabel(t *testing.T) {
	assert.Equal(t, "007", PadLabel("7", 3))
	assert.Equal(t, "012.5", PadLabel("12.5", 3))
	assert.Equal(t, "010.25", PadLabel("10.25", 3))
	assert.Equal(t, "1234", PadLabel("1234", 3))
	assert.Equal(t, "7", PadLabel("7", 0))
	assert.Equal(t, "Extra", PadLabel("Extra", 3))
	assert.Equal(t, "1.", PadLabel("1.", 3))
	assert.Equal(t, "", PadLabel("", 3))
}
