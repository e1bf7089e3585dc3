package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error so handlers can map it to an HTTP status.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindPermissionDenied
	KindNotFound
	KindConflict
	KindGateway
	KindVerification
)

// Error is a typed domain error carrying a Kind and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two apperr.Errors by Kind so sentinel-style checks work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

func PermissionDenied(format string, args ...interface{}) *Error {
	return newf(KindPermissionDenied, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newf(KindConflict, format, args...)
}

// Gateway wraps an outbound payment-gateway failure. No local state was mutated.
func Gateway(err error, format string, args ...interface{}) *Error {
	e := newf(KindGateway, format, args...)
	e.Err = err
	return e
}

// Verification signals the gateway reported the payment as failed or unknown.
// The transaction stays PENDING and the caller may retry finalize later.
func Verification(format string, args ...interface{}) *Error {
	return newf(KindVerification, format, args...)
}

// KindOf extracts the Kind from an error chain, KindUnknown if untyped.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
