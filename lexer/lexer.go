// Package lexer tokenizes formula text into the stream package token
// describes. It scans once into a slice and exposes that slice as a FIFO
// via Next/Peek, rather than pulling tokens lazily.
package lexer

import (
	"strconv"
	"strings"

	"sheetd/token"
	"sheetd/value"
)

const singleCharOperators = "+-*/^!%&|:"

// Tokens is the reversed-vector FIFO the parser drives: tokens are appended
// in source order, then the slice is reversed so Next/Peek can pop off the
// tail in O(1) while still reading left to right.
type Tokens struct {
	stack []token.Token
}

// Lex scans the full input and returns a reversible token stream, or the
// first Syntax error encountered.
func Lex(input string) (*Tokens, error) {
	l := &lexer{input: input}
	var toks []token.Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == token.Eof {
			break
		}
	}
	reversed := make([]token.Token, len(toks))
	for i, t := range toks {
		reversed[len(toks)-1-i] = t
	}
	return &Tokens{stack: reversed}, nil
}

// Next pops and returns the next token, or Eof once the stream is spent.
func (t *Tokens) Next() token.Token {
	if len(t.stack) == 0 {
		return token.NewEof()
	}
	tok := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	return tok
}

// Peek returns the next token without consuming it.
func (t *Tokens) Peek() token.Token {
	if len(t.stack) == 0 {
		return token.NewEof()
	}
	return t.stack[len(t.stack)-1]
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) ch() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *lexer) next() (token.Token, error) {
	l.skipWhitespace()

	c := l.ch()
	switch {
	case c == 0:
		return token.NewEof(), nil
	case isAlpha(c):
		return l.readIdentifier(), nil
	case isDigit(c):
		return l.readNumber()
	case c == '"' || c == '\'':
		return l.readString(c)
	case c == '(':
		l.pos++
		return token.NewOpenParen(), nil
	case c == ')':
		l.pos++
		return token.NewCloseParen(), nil
	case c == ',':
		l.pos++
		return token.NewComma(), nil
	case strings.IndexByte(singleCharOperators, c) >= 0:
		l.pos++
		return token.Op(c), nil
	default:
		return token.Token{}, value.Syntax("unexpected character " + strconv.QuoteRune(rune(c)))
	}
}

func (l *lexer) skipWhitespace() {
	for l.ch() == ' ' || l.ch() == '\t' || l.ch() == '\n' || l.ch() == '\r' {
		l.pos++
	}
}

func (l *lexer) readIdentifier() token.Token {
	start := l.pos
	for isAlnum(l.ch()) || l.ch() == '_' {
		l.pos++
	}
	name := l.input[start:l.pos]
	switch name {
	case "true":
		return token.Lit(value.Boolean(true))
	case "false":
		return token.Lit(value.Boolean(false))
	default:
		return token.Ident(name)
	}
}

// readNumber accepts digits, at most one '.', and at most one 'e', the two
// mutually exclusive per the tokenizer's single-pass grammar.
func (l *lexer) readNumber() (token.Token, error) {
	start := l.pos
	sawDot := false
	sawExp := false
loop:
	for {
		c := l.ch()
		switch {
		case isDigit(c):
			l.pos++
		case c == '.' && !sawDot && !sawExp:
			sawDot = true
			l.pos++
		case (c == 'e' || c == 'E') && !sawExp && !sawDot:
			sawExp = true
			l.pos++
		default:
			break loop
		}
	}
	text := l.input[start:l.pos]
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token.Token{}, value.Syntax("malformed number: " + text)
	}
	return token.Lit(value.Number(n)), nil
}

// readString reads content between matching quote characters. A backslash
// toggles an escape flag so an escaped quote does not terminate the string;
// the quote bytes are dropped and no escape expansion happens on content.
func (l *lexer) readString(quote byte) (token.Token, error) {
	l.pos++ // opening quote
	var out strings.Builder
	escaped := false
	for {
		c := l.ch()
		if c == 0 {
			return token.Token{}, value.Syntax("unterminated string literal")
		}
		if escaped {
			out.WriteByte(c)
			escaped = false
			l.pos++
			continue
		}
		if c == '\\' {
			escaped = true
			out.WriteByte(c)
			l.pos++
			continue
		}
		if c == quote {
			l.pos++
			return token.Lit(value.String(out.String())), nil
		}
		out.WriteByte(c)
		l.pos++
	}
}

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }
