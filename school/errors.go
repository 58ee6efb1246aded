package school

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure so callers can pick a response
// without parsing messages.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInvalidArgument
	KindConflict
	KindForbidden
	KindDependencyFailure
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindDependencyFailure:
		return "dependency_failure"
	}
	return "unknown"
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// DependencyFailure wraps a store or file-storage error. The service
// never retries; the caller decides.
func DependencyFailure(msg string, err error) error {
	return &Error{Kind: KindDependencyFailure, Message: msg, Err: err}
}

// KindOf returns the Kind carried by err, or 0 for errors that did not
// come out of this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
