// Package errs holds the error taxonomy shared by the content engine and the
// HTTP layer. Every failure a caller can see carries a Kind and a message that
// is safe to show in the admin dashboard.
package errs

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation       Kind = "validation"
	KindOffline          Kind = "offline"
	KindAuthChecking     Kind = "auth_checking"
	KindUnauthenticated  Kind = "unauthenticated"
	KindRateLimited      Kind = "rate_limited"
	KindAlreadyExists    Kind = "already_exists"
	KindNotFound         Kind = "not_found"
	KindPermissionDenied Kind = "permission_denied"
	KindUnavailable      Kind = "unavailable"
	KindUnknown          Kind = "unknown"
)

const (
	MsgOffline          = "You are offline. Changes cannot be saved until the connection is restored."
	MsgAuthChecking     = "Authentication check in progress. Please try again in a moment."
	MsgUnauthenticated  = "You must be signed in to make changes."
	MsgNotFound         = "The requested item no longer exists."
	MsgPermissionDenied = "You do not have permission to perform this action."
	MsgUnavailable      = "The content service is unreachable. Please check your connection and try again."
	MsgServerAuth       = "The content service rejected our credentials. Please sign in again."
	MsgUnknown          = "Something went wrong. Please try again."
)

type Error struct {
	Kind    Kind
	Message string
	Details map[string]string
	// RetryAfter is set on rate-limit errors.
	RetryAfter int
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string, details map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func RateLimited(op string, waitSeconds int) *Error {
	return &Error{
		Kind:       KindRateLimited,
		Message:    fmt.Sprintf("Too many %s requests. Please wait %d seconds.", op, waitSeconds),
		RetryAfter: waitSeconds,
	}
}

// KindOf returns KindUnknown for errors outside the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message is what the dashboard shows for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return MsgUnknown
}
