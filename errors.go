package mdhtml

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedUnit reports a byte that cannot start a code unit, or a
	// unit with invalid continuation bytes in strict mode.
	ErrMalformedUnit = errors.New("malformed code unit")
	// ErrTruncatedUnit reports input that ended inside a code unit.
	ErrTruncatedUnit = errors.New("truncated code unit")
	// ErrHeadingLevel reports a heading level outside 1..6.
	ErrHeadingLevel = errors.New("heading level out of range")
)

// SyntaxError describes malformed input at a 1-based line and column.
// Columns count code units, not bytes.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return e.Err }
