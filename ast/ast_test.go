package ast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"sheetd/cellref"
	"sheetd/value"
)

func TestFormatLeaf(t *testing.T) {
	out := Format(LiteralExpr{Value: value.Number(3)})
	assert.Equal(t, "└── Literal(3)\n", out)
}

func TestFormatInfixHasTwoChildren(t *testing.T) {
	expr := InfixExpr{
		Op:    ADD,
		Left:  LiteralExpr{Value: value.Number(1)},
		Right: CellRefExpr{Ref: cellref.New(0, 0)},
	}
	out := Format(expr)
	assert.True(t, strings.Contains(out, "Infix(+)"))
	assert.True(t, strings.Contains(out, "Literal(1)"))
	assert.True(t, strings.Contains(out, "CellRef(A1)"))
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestOpStringHelpers(t *testing.T) {
	assert.Equal(t, "+", PrefixOpString(POS))
	assert.Equal(t, "-", PrefixOpString(NEG))
	assert.Equal(t, "!", PrefixOpString(NOT))
	assert.Equal(t, "%", PostfixOpString(PERCENT))
	assert.Equal(t, ":", InfixOpString(RANGE))
}
