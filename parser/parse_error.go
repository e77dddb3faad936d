package parser

import "sheetd/value"

// FormatParseError renders a Syntax error against the formula text it came
// from, for trace logging.
func FormatParseError(err value.Error, formula string) string {
	return "parse error: " + err.Desc + "\n  in: " + formula
}
