package query

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is the sentinel wrapped by every *SyntaxError.
	ErrSyntax = errors.New("query syntax error")

	errUnknownDirective = errors.New("do not understand query")
)

// SyntaxError reports the first directive that could not be understood.
type SyntaxError struct {
	Line    string
	LineNo  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Line)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}
