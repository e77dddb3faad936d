// Package cellref parses and formats A1-style spreadsheet cell references.
// It sits below package value and has no dependencies of its own, so value's
// Eval type can embed a Ref without creating an import cycle.
package cellref

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Ref is a zero-indexed (row, col) pair identifying a cell.
type Ref struct {
	Row int
	Col int
}

func New(row, col int) Ref { return Ref{Row: row, Col: col} }

// Parse accepts trimmed input of the form "<letters><digits>": a run of
// ASCII letters (folded to uppercase, interpreted base-26 with A=1) followed
// by a run of ASCII digits (1-indexed row). Either run missing, or stray
// characters in the row segment, is a plain error; the parser reports it as
// a Syntax error.
func Parse(s string) (Ref, error) {
	s = strings.TrimSpace(s)

	i := 0
	for i < len(s) && isASCIILetter(s[i]) {
		i++
	}
	if i == 0 {
		return Ref{}, errors.New("cell reference is missing its column letters: " + s)
	}
	letters := strings.ToUpper(s[:i])
	rest := s[i:]
	if rest == "" {
		return Ref{}, errors.New("cell reference is missing its row number: " + s)
	}
	for _, c := range rest {
		if c < '0' || c > '9' {
			return Ref{}, errors.New("cell reference row is not numeric: " + s)
		}
	}

	col := 0
	for _, c := range letters {
		col = col*26 + int(c-'A'+1)
	}
	col--

	row, err := strconv.Atoi(rest)
	if err != nil {
		return Ref{}, errors.New("cell reference row is not numeric: " + s)
	}
	row--

	return Ref{Row: row, Col: col}, nil
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// String renders the reference back to A1 form.
func (r Ref) String() string {
	return columnLetters(r.Col) + strconv.Itoa(r.Row+1)
}

// columnLetters renders a zero-indexed column as base-26 letters (A=0 -> "A").
func columnLetters(col int) string {
	n := col + 1
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

type refPayload struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(refPayload{Row: r.Row, Col: r.Col})
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	var p refPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	r.Row, r.Col = p.Row, p.Col
	return nil
}
