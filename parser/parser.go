// Package parser builds a formula AST using a Pratt-style recursive-descent
// parser with explicit left/right precedence pairs per operator.
package parser

import (
	"sheetd/ast"
	"sheetd/cellref"
	"sheetd/lexer"
	"sheetd/token"
	"sheetd/value"
)

// precPair is an operator's (left, right) binding power. Comparing an
// operator's left precedence against the caller's minimum precedence, then
// recursing at the operator's right precedence, is what lets RANGE bind
// tighter than MUL/DIV while ADD/SUB/OR stay loosest.
type precPair struct{ left, right int }

var infixPrec = map[byte]precPair{
	':': {7, 8}, // RANGE
	'*': {3, 4}, // MUL
	'/': {3, 4}, // DIV
	'&': {3, 4}, // AND
	'+': {1, 2}, // ADD
	'-': {1, 2}, // SUB
	'|': {1, 2}, // OR
}

const prefixPrec = 5
const postfixPrec = 6

// Parse parses formula text into an expression tree, accumulating the set
// of bare-identifier CellRefs encountered as precedents.
func Parse(text string) (ast.Expr, map[cellref.Ref]struct{}, error) {
	toks, err := lexer.Lex(text)
	if err != nil {
		return nil, nil, err
	}
	p := &parser{toks: toks, precedents: make(map[cellref.Ref]struct{})}
	expr, err := p.parseExpr(0)
	if err != nil {
		return nil, nil, err
	}
	if p.toks.Peek().Type != token.Eof {
		return nil, nil, value.Syntax("unexpected trailing input")
	}
	return expr, p.precedents, nil
}

type parser struct {
	toks       *lexer.Tokens
	precedents map[cellref.Ref]struct{}
}

func (p *parser) parseExpr(minPrec int) (ast.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.toks.Peek()
		if tok.Type != token.Operator {
			break
		}

		if tok.Op == '%' {
			if postfixPrec < minPrec {
				break
			}
			p.toks.Next()
			left = ast.PostfixExpr{Op: ast.PERCENT, Operand: left}
			continue
		}

		prec, ok := infixPrec[tok.Op]
		if !ok || prec.left < minPrec {
			break
		}
		p.toks.Next()

		right, err := p.parseExpr(prec.right)
		if err != nil {
			return nil, err
		}
		left = ast.InfixExpr{Op: infixOpFor(tok.Op), Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	tok := p.toks.Next()

	switch tok.Type {
	case token.LiteralTok:
		return ast.LiteralExpr{Value: tok.Lit}, nil

	case token.OpenParen:
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if p.toks.Next().Type != token.CloseParen {
			return nil, value.Syntax("expected closing parenthesis")
		}
		return ast.GroupExpr{Inner: inner}, nil

	case token.Operator:
		op, ok := prefixOpFor(tok.Op)
		if !ok {
			return nil, value.Syntax("unexpected operator in prefix position: " + string(tok.Op))
		}
		operand, err := p.parseExpr(prefixPrec)
		if err != nil {
			return nil, err
		}
		return ast.PrefixExpr{Op: op, Operand: operand}, nil

	case token.Identifier:
		if p.toks.Peek().Type == token.OpenParen {
			p.toks.Next()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return ast.FunctionExpr{Name: tok.Name, Args: args}, nil
		}
		ref, err := cellref.Parse(tok.Name)
		if err != nil {
			return nil, value.Syntax(err.Error())
		}
		p.precedents[ref] = struct{}{}
		return ast.CellRefExpr{Ref: ref}, nil

	default:
		return nil, value.Syntax("unexpected token")
	}
}

func (p *parser) parseArgs() ([]ast.Expr, error) {
	var args []ast.Expr
	if p.toks.Peek().Type == token.CloseParen {
		p.toks.Next()
		return args, nil
	}
	for {
		arg, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		next := p.toks.Next()
		if next.Type == token.CloseParen {
			return args, nil
		}
		if next.Type != token.Comma {
			return nil, value.Syntax("expected comma between arguments")
		}
	}
}

func prefixOpFor(op byte) (ast.PrefixOp, bool) {
	switch op {
	case '+':
		return ast.POS, true
	case '-':
		return ast.NEG, true
	case '!':
		return ast.NOT, true
	default:
		return 0, false
	}
}

func infixOpFor(op byte) ast.InfixOp {
	switch op {
	case '*':
		return ast.MUL
	case '/':
		return ast.DIV
	case '+':
		return ast.ADD
	case '-':
		return ast.SUB
	case '&':
		return ast.AND
	case '|':
		return ast.OR
	case ':':
		return ast.RANGE
	default:
		return ast.ADD
	}
}
