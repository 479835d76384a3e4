// Package apperr defines the typed failures surfaced by every service.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure independently of the package that produced it.
type Kind int

const (
	Internal Kind = iota
	NotFound
	OwnershipMismatch
	InvalidState
	InvalidRange
	InvalidInput
	Unauthorized
	Forbidden
	Conflict
	RateLimited
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NOT_FOUND"
	case OwnershipMismatch:
		return "OWNERSHIP_MISMATCH"
	case InvalidState:
		return "INVALID_STATE"
	case InvalidRange:
		return "INVALID_RANGE"
	case InvalidInput:
		return "INVALID_INPUT"
	case Unauthorized:
		return "UNAUTHORIZED"
	case Forbidden:
		return "FORBIDDEN"
	case Conflict:
		return "CONFLICT"
	case RateLimited:
		return "RATE_LIMITED"
	default:
		return "INTERNAL"
	}
}

// Error is a machine-readable failure. Package-level values are used as
// sentinels and compared with errors.Is.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// Wrap attaches detail to a sentinel while keeping it matchable.
func Wrap(sentinel *Error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// KindOf reports the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// CodeOf reports the code of the first *Error in err's chain.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Internal.String()
}

var (
	ErrUnauthorized = New(Unauthorized, "UNAUTHORIZED", "authentication required")
	ErrForbidden    = New(Forbidden, "FORBIDDEN", "not allowed to perform this action")
)
