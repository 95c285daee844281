// Package utils provides small, dependency-free helpers shared by the o65
// codec, converter, and relocator: wrapped errors, a byte-buffer pool, and
// overflow-checked arithmetic for sizes that come from untrusted input.
package utils

import "fmt"

// Error is a contextual error: it names the operation that failed and
// wraps the underlying cause so callers can still errors.Is/As through it.
type Error struct {
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Cause)
}

// Unwrap provides compatibility with errors.Unwrap().
func (e *Error) Unwrap() error {
	return e.Cause
}

// Wrap creates a contextual error. Returns nil if cause is nil.
func Wrap(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Context: context, Cause: cause}
}
