// Package apperr provides typed domain errors for the application.
// Services return these and the HTTP layer maps them to status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes an error for handling decisions.
type Kind int

const (
	KindUnknown Kind = iota
	// KindTenantNotFound: no such tenant. Resolved to a safe widget message.
	KindTenantNotFound
	// KindTenantInactive: tenant exists but is not operational.
	KindTenantInactive
	// KindQuotaExceeded: plan ceiling reached for the current period.
	KindQuotaExceeded
	// KindAllProvidersFailed: every configured completion provider failed.
	// The one terminal pipeline condition with no tenant-facing fallback.
	KindAllProvidersFailed
	// KindPersistence: a store write or read failed.
	KindPersistence
	// KindValidation: invalid input data.
	KindValidation
	// KindUnauthorized: authentication required or failed.
	KindUnauthorized
	// KindConflict: duplicate or conflicting state.
	KindConflict
	// KindNotFound: a non-tenant resource was not found.
	KindNotFound
)

// Error is a domain error carrying a Kind.
type Error struct {
	Kind    Kind
	Message string
	Op      string // operation that failed (optional)
	Err     error  // underlying error (optional)
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a typed error with a message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap returns a typed error wrapping an underlying cause.
func Wrap(kind Kind, op string, err error) *Error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: kind, Message: msg, Op: op, Err: err}
}

// KindOf extracts the Kind from an error chain, KindUnknown if untyped.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// HTTPStatus returns the status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindTenantNotFound, KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindQuotaExceeded:
		return http.StatusTooManyRequests
	case KindAllProvidersFailed, KindPersistence:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
