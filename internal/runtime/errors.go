package runtime

import (
	"errors"
	"fmt"
	"lox-lang/internal/span"
)

// Runtime error categories. A *RuntimeError unwraps to exactly one of them,
// so callers can test the category with errors.Is.
var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrDivisionByZero    = errors.New("division by zero")
)

// RuntimeError is an error raised while evaluating a program, tagged with
// the source position of the expression that failed.
type RuntimeError struct {
	Pos span.Position
	Err error
}

// Error renders the error as "[line <n>] <message>".
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] %s", e.Pos.Line, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Line returns the source line of the failing expression.
func (e *RuntimeError) Line() int {
	return e.Pos.Line
}

func runtimeErr(pos span.Position, err error) error {
	return &RuntimeError{Pos: pos, Err: err}
}

func mismatch(pos span.Position, format string, args ...interface{}) error {
	return runtimeErr(pos, fmt.Errorf("%w: %s", ErrTypeMismatch, fmt.Sprintf(format, args...)))
}
