// Package apperrors carries the error taxonomy shared by services and the
// HTTP layer. Every error surfaced to a client maps to exactly one Kind.
package apperrors

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalidArgument
	KindMalformedIdentifier
	KindNotFound
	KindUnauthenticated
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func InvalidArgument(message string) error {
	return &Error{Kind: KindInvalidArgument, Message: message}
}

func MalformedIdentifier(message string) error {
	return &Error{Kind: KindMalformedIdentifier, Message: message}
}

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Unauthenticated(message string) error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// Internal wraps an unexpected failure. The wrapped message is passed through
// to the client.
func Internal(err error) error {
	return &Error{Kind: KindInternal, Err: err}
}

func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidArgument, KindMalformedIdentifier:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Code is the machine-readable "error" field of JSON error bodies.
func Code(err error) string {
	switch KindOf(err) {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindMalformedIdentifier:
		return "malformed_identifier"
	case KindNotFound:
		return "not_found"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "internal_error"
	}
}
