// Package errors is the storefront's error taxonomy. Services return *Error
// values carrying a Code and the HTTP layer renders them through Metadata.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// Error is a coded error with an optional client-facing payload.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches cause; the cause is logged but never rendered to clients.
func Wrap(code Code, cause error, message string) *Error {
	return &Error{code: code, message: message, cause: cause}
}

// Code is CodeInternal on a nil receiver.
func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails returns a copy of e carrying details.
func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	cp := *e
	cp.details = details
	return &cp
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause == nil:
		return string(e.code) + ": " + e.message
	default:
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As returns the outermost *Error in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if err != nil && stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the code of the outermost typed error in err's chain,
// or CodeInternal when there is none.
func CodeOf(err error) Code {
	return As(err).Code()
}

// IsCode reports whether err carries code.
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// Retryable reports whether a client may retry the failed request as is.
func Retryable(err error) bool {
	return err != nil && MetadataFor(CodeOf(err)).Retryable
}
