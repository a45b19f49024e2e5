// Package apperr is the error taxonomy shared by the repositories, services
// and the HTTP boundary.
//
// Every failure a service returns is (or wraps) an *Error carrying one of
// three kinds. Controllers only look at the kind to pick a status code; tests
// and callers compare against the service sentinels with errors.Is, which
// matches on Code.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the boundary.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound: a document, order or item id is absent.
	KindNotFound
	// KindValidation: malformed or out-of-range input.
	KindValidation
	// KindStorage: an underlying read, write or rename failed.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindStorage:
		return "storage"
	}
	return "unknown"
}

// Error is a classified failure.
type Error struct {
	Op      string // operation that failed, e.g. "cart.Add"
	Kind    Kind
	Code    string // stable machine-readable code, e.g. "invalid_quantity"
	Field   string // offending input field, when there is one
	Message string // human-readable message safe to show to clients
	Err     error  // underlying cause
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same non-empty Code, so a sentinel and a
// decorated copy of it (different Op, Field or cause) compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// With returns a copy of e bound to op and, optionally, a cause.
func (e *Error) With(op string, cause error) *Error {
	cp := *e
	cp.Op = op
	if cause != nil {
		cp.Err = cause
	}
	return &cp
}

// WithField returns a copy of e naming the offending field.
func (e *Error) WithField(field string) *Error {
	cp := *e
	cp.Field = field
	cp.Message = fmt.Sprintf("%s: %s", e.Message, field)
	return &cp
}

// WithMessage returns a copy of e with a more specific message.
func (e *Error) WithMessage(format string, args ...any) *Error {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// NotFound creates a KindNotFound sentinel.
func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

// Validation creates a KindValidation sentinel.
func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// Storage creates a KindStorage sentinel.
func Storage(code, message string) *Error {
	return &Error{Kind: KindStorage, Code: code, Message: message}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf returns the client-safe message of the first *Error in err's
// chain, falling back to fallback.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// FieldOf returns the field recorded on the first *Error in err's chain.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
