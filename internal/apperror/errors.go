// ABOUTME: Error kinds, constructors, and errors.Is support for the taxonomy
// ABOUTME: Carries a user-safe message and a never-exposed internal cause

package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for boundary mapping.
type Kind int

const (
	// KindInternal is an unexpected failure in signing, storage, or
	// serialization. The caller only ever sees a generic message.
	KindInternal Kind = iota

	// KindInvalidCredentials means a login email/password pair does not
	// resolve to a valid account. Wrong email and wrong password are
	// indistinguishable by contract.
	KindInvalidCredentials

	// KindInvalidToken means a bearer token failed the signature check, is
	// expired, or is malformed.
	KindInvalidToken

	// KindUnauthenticated means no credential was supplied at all.
	KindUnauthenticated

	// KindAlreadyExists means a registration email collides with an
	// existing account.
	KindAlreadyExists

	// KindNotFound means a referenced user or post does not exist.
	KindNotFound

	// KindInvalidArgument means the request payload failed validation.
	KindInvalidArgument
)

// String returns a machine-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindInvalidToken:
		return "invalid_token"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindAlreadyExists:
		return "already_exists"
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	default:
		return "internal"
	}
}

// Error is the taxonomy error type. Message is safe to show to a caller;
// the wrapped cause is for logs only.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind around an underlying cause.
// The cause is retained for errors.Is/As and logging, not for callers.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches errors by kind, so errors.Is(err, apperror.New(KindNotFound, ""))
// holds for any not-found Error regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf extracts the kind from an error chain. Anything that is not an
// apperror.Error is classified as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsAuthFailure reports whether err is one of the authentication-class
// kinds that external callers must not be able to tell apart.
func IsAuthFailure(err error) bool {
	switch KindOf(err) {
	case KindInvalidCredentials, KindInvalidToken, KindUnauthenticated:
		return true
	default:
		return false
	}
}

// Public returns the message safe to expose for err. Internal-class errors
// collapse to a generic message so implementation detail never leaks.
func Public(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal error"
}
