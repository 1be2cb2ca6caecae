package apperrors

import (
	"net/http"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindPaymentRequired
	KindRateLimited
)

var kindStatus = map[Kind]int{
	KindInternal:        http.StatusInternalServerError,
	KindValidation:      http.StatusBadRequest,
	KindUnauthenticated: http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusConflict,
	KindPaymentRequired: http.StatusPaymentRequired,
	KindRateLimited:     http.StatusTooManyRequests,
}

func (k Kind) HTTPStatus() int {
	if status, ok := kindStatus[k]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error is a domain error whose message is safe to return to the client.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Cause() error {
	return e.cause
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind Kind, msg string) error {
	return errors.WithStack(&Error{Kind: kind, Message: msg})
}

func NewValidation(msg string) error      { return newError(KindValidation, msg) }
func NewUnauthenticated(msg string) error { return newError(KindUnauthenticated, msg) }
func NewForbidden(msg string) error       { return newError(KindForbidden, msg) }
func NewNotFound(msg string) error        { return newError(KindNotFound, msg) }
func NewConflict(msg string) error        { return newError(KindConflict, msg) }
func NewPaymentRequired(msg string) error { return newError(KindPaymentRequired, msg) }
func NewRateLimited(msg string) error     { return newError(KindRateLimited, msg) }

// Validation wraps a request validation failure keeping its text as the client message.
func Validation(err error) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(&Error{Kind: KindValidation, Message: err.Error()})
}

// KindOf returns KindInternal for errors outside the taxonomy.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Message returns the client-facing text, or "" for internal errors.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
