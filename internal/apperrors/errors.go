// Package apperrors defines the error taxonomy shared by services and the
// HTTP layer. Handlers branch on the kind, never on error text, so persistence
// errors must be wrapped before they cross a service boundary.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an application error.
type Kind int

const (
	// KindInternal is the zero value: an unclassified server-side failure.
	KindInternal Kind = iota
	// KindValidation marks malformed input; carries per-field detail.
	KindValidation
	// KindConflict marks a business-rule rejection such as a doctor
	// availability clash. Callers can retry with a different slot.
	KindConflict
	// KindNotFound marks a missing record or one in the wrong lifecycle
	// state for the requested transition.
	KindNotFound
	// KindForbidden marks a principal whose role is not in the operation's
	// required set.
	KindForbidden
)

// Error is the concrete error type returned by services.
type Error struct {
	Kind   Kind
	Msg    string
	Fields map[string]string // per-field detail for validation errors
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Msg
	}
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+": "+msg)
	}
	return e.Msg + " (" + strings.Join(parts, "; ") + ")"
}

// Validation builds a validation error with per-field detail.
func Validation(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Msg: msg, Fields: fields}
}

// Conflict builds a business-rule conflict error.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// NotFound builds a not-found error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// Forbidden builds a forbidden error.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

// Internal wraps an unexpected error without leaking its text to clients.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Msg: fmt.Sprintf("internal error: %v", err)}
}

// KindOf extracts the kind from err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// FieldsOf extracts validation field detail from err, if any.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsForbidden reports whether err is a forbidden error.
func IsForbidden(err error) bool { return KindOf(err) == KindForbidden }
