// Package eval walks a parsed formula expression against a grid, producing
// a value and the set of cells it depended on.
package eval

import (
	"math"

	"sheetd/ast"
	"sheetd/cellref"
	"sheetd/parser"
	"sheetd/value"
)

// Grid is the lookup surface the evaluator needs from a cell store. It is
// intentionally narrow: the evaluator only ever reads one cell at a time.
type Grid interface {
	Lookup(ref cellref.Ref) (value.Eval, bool)
}

// Evaluate parses and evaluates formula text against grid, returning either
// the computed value or an Eval::Err, together with every CellRef touched
// by parsing and evaluation (including range expansions). Evaluation never
// panics: every failure path is folded into an Error value.
func Evaluate(text string, grid Grid) (value.Eval, map[cellref.Ref]struct{}) {
	expr, precedents, err := parser.Parse(text)
	if err != nil {
		valErr, ok := err.(value.Error)
		if !ok {
			valErr = value.Syntax(err.Error())
		}
		return value.FromErr(valErr), map[cellref.Ref]struct{}{}
	}
	e := &evaluator{grid: grid, precedents: precedents}
	result := e.eval(expr)
	return result, e.precedents
}

type evaluator struct {
	grid       Grid
	precedents map[cellref.Ref]struct{}
}

func (e *evaluator) eval(expr ast.Expr) value.Eval {
	switch n := expr.(type) {
	case ast.LiteralExpr:
		return value.FromLiteral(n.Value)

	case ast.CellRefExpr:
		return e.evalCellRef(n.Ref)

	case ast.GroupExpr:
		return e.eval(n.Inner)

	case ast.PrefixExpr:
		return e.evalPrefix(n)

	case ast.PostfixExpr:
		return value.FromErr(value.Unsupported("postfix operators are not supported"))

	case ast.InfixExpr:
		return e.evalInfix(n)

	case ast.FunctionExpr:
		return e.evalFunction(n)

	default:
		return value.FromErr(value.Server("unknown expression shape"))
	}
}

func (e *evaluator) evalCellRef(ref cellref.Ref) value.Eval {
	e.precedents[ref] = struct{}{}
	if e.grid == nil {
		return value.FromErr(value.Server("no grid available for cell reference"))
	}
	stored, ok := e.grid.Lookup(ref)
	if !ok {
		return value.FromCellRef(value.Unset(), ref)
	}
	return value.FromCellRef(stored, ref)
}

func (e *evaluator) evalPrefix(n ast.PrefixExpr) value.Eval {
	operand := e.eval(n.Operand).Unwrap()
	if operand.IsErr() {
		return operand
	}
	switch n.Op {
	case ast.POS:
		if !operand.IsLiteral() || !operand.Literal().IsNumber() {
			return value.FromErr(value.Unsupported("unary + requires a number"))
		}
		return operand
	case ast.NEG:
		if !operand.IsLiteral() || !operand.Literal().IsNumber() {
			return value.FromErr(value.Unsupported("unary - requires a number"))
		}
		return value.FromLiteral(value.Number(-operand.Literal().Num()))
	case ast.NOT:
		if !operand.IsLiteral() || !operand.Literal().IsBoolean() {
			return value.FromErr(value.Unsupported("! requires a boolean"))
		}
		return value.FromLiteral(value.Boolean(!operand.Literal().Bool()))
	default:
		return value.FromErr(value.Server("unknown prefix operator"))
	}
}

func (e *evaluator) evalInfix(n ast.InfixExpr) value.Eval {
	if n.Op == ast.RANGE {
		return e.evalRange(n)
	}

	left := e.eval(n.Left).Unwrap()
	if left.IsErr() {
		return left
	}
	right := e.eval(n.Right).Unwrap()
	if right.IsErr() {
		return right
	}

	switch n.Op {
	case ast.ADD:
		if left.IsLiteral() && right.IsLiteral() && left.Literal().IsNumber() && right.Literal().IsNumber() {
			return value.FromLiteral(value.Number(left.Literal().Num() + right.Literal().Num()))
		}
		if left.IsLiteral() && right.IsLiteral() && left.Literal().IsString() && right.Literal().IsString() {
			return value.FromLiteral(value.String(left.Literal().Str() + right.Literal().Str()))
		}
		return value.FromErr(value.Unsupported("+ requires two numbers or two strings"))
	case ast.SUB:
		return numericBinOp(left, right, "-", func(a, b float64) (float64, *value.Error) { return a - b, nil })
	case ast.MUL:
		return numericBinOp(left, right, "*", func(a, b float64) (float64, *value.Error) { return a * b, nil })
	case ast.DIV:
		return numericBinOp(left, right, "/", func(a, b float64) (float64, *value.Error) {
			if b == 0.0 {
				err := value.DivZero("division by zero")
				return 0, &err
			}
			return a / b, nil
		})
	case ast.AND, ast.OR:
		return value.FromErr(value.Unsupported("logical operators are not supported in this core"))
	default:
		return value.FromErr(value.Server("unknown infix operator"))
	}
}

func numericBinOp(left, right value.Eval, op string, f func(a, b float64) (float64, *value.Error)) value.Eval {
	if !left.IsLiteral() || !right.IsLiteral() || !left.Literal().IsNumber() || !right.Literal().IsNumber() {
		return value.FromErr(value.Unsupported(op + " requires two numbers"))
	}
	n, err := f(left.Literal().Num(), right.Literal().Num())
	if err != nil {
		return value.FromErr(*err)
	}
	return value.FromLiteral(value.Number(n))
}

// evalRange requires both operands to evaluate as CellRef (not unwrapped,
// range construction needs reference identity, unlike every other operator).
func (e *evaluator) evalRange(n ast.InfixExpr) value.Eval {
	left := e.eval(n.Left)
	if left.IsErr() {
		return left
	}
	right := e.eval(n.Right)
	if right.IsErr() {
		return right
	}
	if !left.IsCellRef() || !right.IsCellRef() {
		return value.FromErr(value.TypeErr("range endpoints must be cell references"))
	}

	a, b := left.Ref(), right.Ref()
	rowLo, rowHi := minInt(a.Row, b.Row), maxInt(a.Row, b.Row)
	colLo, colHi := minInt(a.Col, b.Col), maxInt(a.Col, b.Col)

	var items []value.Eval
	for row := rowLo; row <= rowHi; row++ {
		for col := colLo; col <= colHi; col++ {
			ref := cellref.New(row, col)
			items = append(items, e.evalCellRef(ref))
		}
	}
	return value.FromRange(items)
}

func (e *evaluator) evalFunction(n ast.FunctionExpr) value.Eval {
	switch n.Name {
	case "PI":
		return constant(n, math.Pi)
	case "TAU":
		return constant(n, 2*math.Pi)
	case "SQRT2":
		return constant(n, math.Sqrt2)
	case "EXP":
		return e.unaryNumeric(n, math.Exp)
	case "LOG":
		return e.unaryNumeric(n, math.Log)
	case "SQRT":
		return e.unaryNumeric(n, math.Sqrt)
	case "ABS":
		return e.unaryNumeric(n, math.Abs)
	case "SIN":
		return e.unaryNumeric(n, math.Sin)
	case "COS":
		return e.unaryNumeric(n, math.Cos)
	case "TAN":
		return e.unaryNumeric(n, math.Tan)
	case "ASIN":
		return e.unaryNumeric(n, math.Asin)
	case "ACOS":
		return e.unaryNumeric(n, math.Acos)
	case "ATAN":
		return e.unaryNumeric(n, math.Atan)
	case "AVG":
		return e.avg(n)
	default:
		return value.FromErr(value.Unsupported("unknown function: " + n.Name))
	}
}

func constant(n ast.FunctionExpr, v float64) value.Eval {
	if len(n.Args) != 0 {
		return value.FromErr(value.Invalid(n.Name + " takes no arguments"))
	}
	return value.FromLiteral(value.Number(v))
}

func (e *evaluator) unaryNumeric(n ast.FunctionExpr, f func(float64) float64) value.Eval {
	if len(n.Args) != 1 {
		return value.FromErr(value.Invalid(n.Name + " requires exactly one argument"))
	}
	arg := e.eval(n.Args[0]).Unwrap()
	if arg.IsErr() {
		return arg
	}
	if !arg.IsLiteral() || !arg.Literal().IsNumber() {
		return value.FromErr(value.TypeErr(n.Name + " requires a number"))
	}
	return value.FromLiteral(value.Number(f(arg.Literal().Num())))
}

func (e *evaluator) avg(n ast.FunctionExpr) value.Eval {
	var nums []float64
	for _, argExpr := range n.Args {
		arg := e.eval(argExpr)
		if arg.IsErr() {
			return arg
		}
		switch {
		case arg.IsLiteral() && arg.Literal().IsNumber():
			nums = append(nums, arg.Literal().Num())
		case arg.IsRange():
			for _, item := range arg.Items() {
				u := item.Unwrap()
				switch {
				case u.IsUnset():
					continue
				case u.IsLiteral() && u.Literal().IsNumber():
					nums = append(nums, u.Literal().Num())
				default:
					return value.FromErr(value.Unsupported("AVG range element must be a number"))
				}
			}
		default:
			return value.FromErr(value.Unsupported("AVG arguments must be numbers or ranges"))
		}
	}
	if len(nums) == 0 {
		return value.FromErr(value.DivZero("AVG of an empty set"))
	}
	var sum float64
	for _, v := range nums {
		sum += v
	}
	return value.FromLiteral(value.Number(sum / float64(len(nums))))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
