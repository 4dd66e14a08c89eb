// Package types holds the structured error type shared by the lexer, parser
// and evaluator.
package types

import (
	"fmt"

	"github.com/sandrolain/limex/pkg/token"
)

// ErrorCode identifies an error's category and specific cause. The leading
// letter groups codes by the taxonomy from spec.md §7: L (LexError), P
// (ParseError), E (EvalError), G (LogicError — internal consistency only,
// reached exclusively on implementation bugs).
type ErrorCode string

const (
	// Lex errors.
	ErrUnbalancedBrackets    ErrorCode = "L001"
	ErrUnexpectedCharacter   ErrorCode = "L002"
	ErrUnexpectedOperand     ErrorCode = "L003"
	ErrSymbolicNameNoBracket ErrorCode = "L004"

	// Parse errors.
	ErrMissingOperand        ErrorCode = "P001"
	ErrMalformedTernary      ErrorCode = "P002"
	ErrAssignmentNotInitial  ErrorCode = "P003"
	ErrAssignmentTargetKind  ErrorCode = "P004"
	ErrUnknownCallable       ErrorCode = "P005"

	// Eval errors.
	ErrDivisionByZero     ErrorCode = "E001"
	ErrNotAValue          ErrorCode = "E002"
	ErrIndexOutOfRange    ErrorCode = "E003"
	ErrCallableOutOfRange ErrorCode = "E004"
	ErrCallableArity      ErrorCode = "E005"
	ErrVariableOutOfRange ErrorCode = "E006"

	// Logic errors — internal consistency violations only.
	ErrInternal ErrorCode = "G001"
)

// Error is LIMEX's single structured error type. Code identifies the
// category; Position is a rune offset into the source (-1 if not
// applicable); Err optionally wraps an underlying cause.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    *token.Token
	Err      error
}

// NewError constructs an Error with no wrapped cause.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{Code: code, Message: message, Position: position}
}

func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("limex: %s: %s (at %d)", e.Code, e.Message, e.Position)
	}
	return fmt.Sprintf("limex: %s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithCause attaches an underlying error and returns e for chaining.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// WithToken attaches the offending token and returns e for chaining.
func (e *Error) WithToken(t *token.Token) *Error {
	e.Token = t
	return e
}
