package parser

import "fmt"

// SyntaxError is a single parse failure, tagged with the source line
// at which it occurred (spec.md §4.2/§7).
type SyntaxError struct {
	Line    int
	Message string
}

func newSyntaxError(line int, format string, args ...any) SyntaxError {
	return SyntaxError{Line: line, Message: fmt.Sprintf(format, args...)}
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("syntax error, line %d: %s", e.Line, e.Message)
}
