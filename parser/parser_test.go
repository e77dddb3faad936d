package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetd/ast"
	"sheetd/cellref"
)

func TestParsePrecedenceMulBindsTighterThanAdd(t *testing.T) {
	expr, _, err := Parse("1 + 2 * 3")
	require.NoError(t, err)
	infix, ok := expr.(ast.InfixExpr)
	require.True(t, ok)
	assert.Equal(t, ast.ADD, infix.Op)
	right, ok := infix.Right.(ast.InfixExpr)
	require.True(t, ok)
	assert.Equal(t, ast.MUL, right.Op)
}

func TestParseRangeBindsTighterThanMul(t *testing.T) {
	expr, precs, err := Parse("A1:B1 * 2")
	require.NoError(t, err)
	infix, ok := expr.(ast.InfixExpr)
	require.True(t, ok)
	assert.Equal(t, ast.MUL, infix.Op)
	left, ok := infix.Left.(ast.InfixExpr)
	require.True(t, ok)
	assert.Equal(t, ast.RANGE, left.Op)

	a1, _ := cellref.Parse("A1")
	b1, _ := cellref.Parse("B1")
	assert.Contains(t, precs, a1)
	assert.Contains(t, precs, b1)
}

func TestParsePostfixPercent(t *testing.T) {
	expr, _, err := Parse("50%")
	require.NoError(t, err)
	post, ok := expr.(ast.PostfixExpr)
	require.True(t, ok)
	assert.Equal(t, ast.PERCENT, post.Op)
}

func TestParsePrefixUnaryMinus(t *testing.T) {
	expr, _, err := Parse("-5")
	require.NoError(t, err)
	pre, ok := expr.(ast.PrefixExpr)
	require.True(t, ok)
	assert.Equal(t, ast.NEG, pre.Op)
}

func TestParseFunctionCallWithArgs(t *testing.T) {
	expr, _, err := Parse("AVG(A1, B1)")
	require.NoError(t, err)
	fn, ok := expr.(ast.FunctionExpr)
	require.True(t, ok)
	assert.Equal(t, "AVG", fn.Name)
	assert.Len(t, fn.Args, 2)
}

func TestParseGroupedExpression(t *testing.T) {
	expr, _, err := Parse("(1 + 2) * 3")
	require.NoError(t, err)
	infix, ok := expr.(ast.InfixExpr)
	require.True(t, ok)
	_, ok = infix.Left.(ast.GroupExpr)
	assert.True(t, ok)
}

func TestParseAccumulatesPrecedentsAcrossTree(t *testing.T) {
	_, precs, err := Parse("A1 + B2 * C3")
	require.NoError(t, err)
	assert.Len(t, precs, 3)
}

func TestParseMissingCloseParenIsSyntaxError(t *testing.T) {
	_, _, err := Parse("(1 + 2")
	assert.Error(t, err)
}

func TestParseMissingCommaIsSyntaxError(t *testing.T) {
	_, _, err := Parse("AVG(A1 B1)")
	assert.Error(t, err)
}

func TestParseTrailingInputIsSyntaxError(t *testing.T) {
	_, _, err := Parse("1 2")
	assert.Error(t, err)
}

func TestParseInvalidCellRefPropagatesError(t *testing.T) {
	_, _, err := Parse("A1B")
	assert.Error(t, err)
}
