// Package facade is the typed client layer over the orchestration API.
// It owns per-call timeouts and a fixed-backoff retry policy so that
// tool callers see either a result or one well-typed failure.
package facade

import "fmt"

// ErrorType classifies a failed call.
type ErrorType string

const (
	ErrTimeout    ErrorType = "timeout"
	ErrHTTP       ErrorType = "http"
	ErrUnexpected ErrorType = "unexpected"
	ErrValidation ErrorType = "validation"
)

// Error is the one failure shape the facade produces.
type Error struct {
	Type    ErrorType
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func validationErr(format string, args ...interface{}) *Error {
	return &Error{Type: ErrValidation, Message: fmt.Sprintf(format, args...)}
}
