package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCellValue(t *testing.T) {
	assert.Equal(t, "hello", formatCellValue("hello"))
	assert.Equal(t, "3.5", formatCellValue(3.5))
	assert.Equal(t, "true", formatCellValue(true))
	assert.Equal(t, "false", formatCellValue(false))
}

func TestLoadXLSBMissingFile(t *testing.T) {
	_, err := LoadXLSB("/nonexistent/path/does/not/exist.xlsb")
	assert.Error(t, err)
}
