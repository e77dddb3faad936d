package ast

import (
	"bytes"
	"fmt"
)

// Format returns a box-drawing tree rendering of an expression, used only
// for trace logging.
func Format(e Expr) string {
	var buf bytes.Buffer
	writeNode(&buf, e, "", true)
	return buf.String()
}

func writeNode(buf *bytes.Buffer, e Expr, prefix string, last bool) {
	branch := "├── "
	next := prefix + "│   "
	if last {
		branch = "└── "
		next = prefix + "    "
	}
	buf.WriteString(prefix)
	buf.WriteString(branch)
	buf.WriteString(label(e))
	buf.WriteByte('\n')

	children := childrenOf(e)
	for i, c := range children {
		writeNode(buf, c, next, i == len(children)-1)
	}
}

func label(e Expr) string {
	switch n := e.(type) {
	case LiteralExpr:
		return fmt.Sprintf("Literal(%s)", n.Value.String())
	case CellRefExpr:
		return fmt.Sprintf("CellRef(%s)", n.Ref.String())
	case FunctionExpr:
		return fmt.Sprintf("Function(%s)", n.Name)
	case GroupExpr:
		return "Group"
	case PrefixExpr:
		return fmt.Sprintf("Prefix(%s)", PrefixOpString(n.Op))
	case PostfixExpr:
		return fmt.Sprintf("Postfix(%s)", PostfixOpString(n.Op))
	case InfixExpr:
		return fmt.Sprintf("Infix(%s)", InfixOpString(n.Op))
	default:
		return "?"
	}
}

func childrenOf(e Expr) []Expr {
	switch n := e.(type) {
	case FunctionExpr:
		return n.Args
	case GroupExpr:
		return []Expr{n.Inner}
	case PrefixExpr:
		return []Expr{n.Operand}
	case PostfixExpr:
		return []Expr{n.Operand}
	case InfixExpr:
		return []Expr{n.Left, n.Right}
	default:
		return nil
	}
}
