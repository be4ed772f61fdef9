package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an operation failure so handlers can map it to an
// HTTP status without inspecting message text.
type Kind int

const (
	// KindInternal is an unexpected failure; details are never surfaced
	KindInternal Kind = iota
	// KindAuthenticationRequired means no valid session was supplied
	KindAuthenticationRequired
	// KindAuthorizationDenied means the actor's role or ownership is wrong
	KindAuthorizationDenied
	// KindValidationFailed means the input is missing or malformed
	KindValidationFailed
	// KindConflictState means a unique key or one-per-entity rule was hit
	KindConflictState
	// KindPreconditionFailed means the entity's current state forbids the operation
	KindPreconditionFailed
	// KindNotFound means a referenced entity does not exist
	KindNotFound
	// KindExternalPaymentFailure means the payment rail declined the operation
	KindExternalPaymentFailure
)

// Error is a classified, user-presentable operation failure
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error with a user-facing message
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a classified error around an underlying cause
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the classification of err, or KindInternal for
// unclassified errors
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Message returns the user-facing message for err. Unclassified errors
// get a generic message so storage details never leak to clients.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "something went wrong"
}

// HTTPStatus maps an error's kind to the HTTP status code for the response
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindAuthenticationRequired:
		return http.StatusUnauthorized
	case KindAuthorizationDenied:
		return http.StatusForbidden
	case KindValidationFailed:
		return http.StatusBadRequest
	case KindConflictState:
		return http.StatusConflict
	case KindPreconditionFailed:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindExternalPaymentFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
