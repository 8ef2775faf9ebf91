// Package errs provides coded domain errors for the tag orchestrator.
//
// Callers match on codes with errors.Is against the sentinels:
//
//	if errors.Is(err, errs.ErrLanguageNotFound) {
//	    // the viewer locale has no language record
//	}
package errs

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeService          Code = "SERVICE"
	CodeLanguageNotFound Code = "LANGUAGE_NOT_FOUND"
	CodeRelationship     Code = "RELATIONSHIP_FAILED"
	CodeTagNotCreated    Code = "TAG_NOT_CREATED"
	CodeTagNotFound      Code = "TAG_NOT_FOUND"
	CodeNotImplemented   Code = "NOT_IMPLEMENTED"
	CodeSuspended        Code = "SUSPENDED"
	CodeInvalidInput     Code = "INVALID_INPUT"
)

// Error is a domain error with a code and an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is.
var (
	ErrService          = &Error{Code: CodeService, Message: "service error"}
	ErrLanguageNotFound = &Error{Code: CodeLanguageNotFound, Message: "language not found"}
	ErrRelationship     = &Error{Code: CodeRelationship, Message: "relationship could not be created"}
	ErrTagNotCreated    = &Error{Code: CodeTagNotCreated, Message: "tag could not be created"}
	ErrTagNotFound      = &Error{Code: CodeTagNotFound, Message: "tag not found"}
	ErrNotImplemented   = &Error{Code: CodeNotImplemented, Message: "not implemented"}
	ErrSuspended        = &Error{Code: CodeSuspended, Message: "suspended after a recent failure"}
)

// Service wraps a transport failure with the operation that triggered it.
func Service(op string, cause error) *Error {
	return &Error{Code: CodeService, Message: op, cause: cause}
}

// New creates an error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf creates an error with the given code and a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
