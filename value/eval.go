package value

import (
	"fmt"
	"strings"

	"sheetd/cellref"
)

// EvalKind tags the variant held by an Eval.
type EvalKind int

const (
	EvalLiteral EvalKind = iota
	EvalCellRef
	EvalRange
	EvalUnset
	EvalErr
)

// Eval is the result of evaluating an expression tree: a scalar literal, a
// value carrying the cell it came from, an ordered range of such values, an
// unset placeholder, or a sticky error.
type Eval struct {
	kind EvalKind

	lit Literal

	// EvalCellRef
	inner *Eval
	ref   cellref.Ref

	// EvalRange
	items []Eval

	// EvalErr
	err Error
}

func FromLiteral(l Literal) Eval { return Eval{kind: EvalLiteral, lit: l} }

func FromCellRef(inner Eval, ref cellref.Ref) Eval {
	return Eval{kind: EvalCellRef, inner: &inner, ref: ref}
}

func FromRange(items []Eval) Eval { return Eval{kind: EvalRange, items: items} }

func Unset() Eval { return Eval{kind: EvalUnset} }

func FromErr(e Error) Eval { return Eval{kind: EvalErr, err: e} }

func (e Eval) Kind() EvalKind { return e.kind }

func (e Eval) IsLiteral() bool { return e.kind == EvalLiteral }
func (e Eval) IsCellRef() bool { return e.kind == EvalCellRef }
func (e Eval) IsRange() bool   { return e.kind == EvalRange }
func (e Eval) IsUnset() bool   { return e.kind == EvalUnset }
func (e Eval) IsErr() bool     { return e.kind == EvalErr }

func (e Eval) Literal() Literal { return e.lit }
func (e Eval) Inner() Eval      { return *e.inner }
func (e Eval) Ref() cellref.Ref { return e.ref }
func (e Eval) Items() []Eval    { return e.items }
func (e Eval) Err() Error       { return e.err }

// Unwrap strips a CellRef wrapper down to the plain value it carries. Every
// consumer except the range operator must call this before inspecting an
// operand; ranges are the only construct that needs the reference identity.
func (e Eval) Unwrap() Eval {
	if e.kind == EvalCellRef {
		return e.inner.Unwrap()
	}
	return e
}

// Equal is structural equality over the Eval sum type, used by the grid to
// decide whether a recompute actually changed a cell's value.
func (e Eval) Equal(o Eval) bool {
	if e.kind != o.kind {
		return false
	}
	switch e.kind {
	case EvalLiteral:
		return e.lit.Equal(o.lit)
	case EvalCellRef:
		return e.ref == o.ref && e.inner.Equal(*o.inner)
	case EvalRange:
		if len(e.items) != len(o.items) {
			return false
		}
		for i := range e.items {
			if !e.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case EvalUnset:
		return true
	case EvalErr:
		return e.err == o.err
	}
	return false
}

func (e Eval) String() string {
	switch e.kind {
	case EvalLiteral:
		return e.lit.String()
	case EvalCellRef:
		return e.inner.String()
	case EvalRange:
		parts := make([]string, len(e.items))
		for i, it := range e.items {
			parts[i] = it.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case EvalUnset:
		return ""
	case EvalErr:
		return fmt.Sprintf("#%s", e.err.Code)
	default:
		return ""
	}
}
