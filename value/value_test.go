package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiteralEqual(t *testing.T) {
	assert.True(t, Number(1).Equal(Number(1)))
	assert.False(t, Number(1).Equal(Number(2)))
	assert.False(t, Number(1).Equal(String("1")))
	assert.True(t, Boolean(true).Equal(Boolean(true)))
	assert.True(t, String("a").Equal(String("a")))
}

func TestLiteralString(t *testing.T) {
	assert.Equal(t, "3", Number(3).String())
	assert.Equal(t, "true", Boolean(true).String())
	assert.Equal(t, "hi", String("hi").String())
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  Error
		code ErrorCode
	}{
		{"syntax", Syntax("bad"), CodeSyntax},
		{"type", TypeErr("bad"), CodeTypeErr},
		{"divzero", DivZero("bad"), CodeDivZero},
		{"unsupported", Unsupported("bad"), CodeUnsupported},
		{"invalid", Invalid("bad"), CodeInvalid},
		{"server", Server("bad"), CodeServer},
		{"ref", Ref("bad"), CodeRef},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Contains(t, tt.err.Error(), "bad")
		})
	}
}
