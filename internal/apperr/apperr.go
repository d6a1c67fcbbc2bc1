// Package apperr defines the typed error kinds shared by every layer of the
// service. Repositories and middleware surface one of these kinds instead of a
// generic failure, and the handler layer maps each kind to an HTTP status.
// Store-level constraint violations must be translated into the matching kind
// before they leave the repository layer.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindInternal is an unexpected failure (hashing subsystem, broken
	// connection, programming error). Maps to 500.
	KindInternal Kind = iota
	// KindUnauthorized means no valid identity was presented. Maps to 401.
	KindUnauthorized
	// KindForbidden means a valid identity lacks privilege. Maps to 403.
	KindForbidden
	// KindNotFound means a referenced entity does not exist. Maps to 404.
	KindNotFound
	// KindConflict means a uniqueness invariant would be violated. Maps to 409.
	KindConflict
	// KindBadRequest means the input was malformed or vacuous. Maps to 400.
	KindBadRequest
)

// Error carries a kind and a client-safe message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds an error of the given kind.
func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func Unauthorized(msg string) *Error { return New(KindUnauthorized, msg) }
func Forbidden(msg string) *Error    { return New(KindForbidden, msg) }
func NotFound(msg string) *Error     { return New(KindNotFound, msg) }
func Conflict(msg string) *Error     { return New(KindConflict, msg) }
func BadRequest(msg string) *Error   { return New(KindBadRequest, msg) }
func Internal(msg string) *Error     { return New(KindInternal, msg) }

// KindOf reports the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is lets errors.Is match two apperr values of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// HTTPStatus maps an error to its transport status code. Unknown errors are
// reported as 500 so internals never leak to clients.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
