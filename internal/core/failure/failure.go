// Package failure defines the error taxonomy shared by every layer.
// Validation and not-found failures are final; conflicts may be retried.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a user-facing failure with a stable machine code.
type Error struct {
	Kind   Kind
	Code   string
	Reason string
}

func (e *Error) Error() string {
	return e.Reason
}

// Is matches another *Error with the same kind and code, so sentinel
// values like ErrTryAgain work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// ErrTryAgain is returned once conflict retries are exhausted.
var ErrTryAgain = &Error{Kind: KindConflict, Code: "try_again", Reason: "the village is busy, please try again"}

// Validation returns a non-retryable input failure.
func Validation(code, reason string) error {
	return &Error{Kind: KindValidation, Code: code, Reason: reason}
}

// Validationf is Validation with a formatted reason.
func Validationf(code, format string, args ...any) error {
	return &Error{Kind: KindValidation, Code: code, Reason: fmt.Sprintf(format, args...)}
}

// NotFound returns a failure for an absent entity.
func NotFound(code, reason string) error {
	return &Error{Kind: KindNotFound, Code: code, Reason: reason}
}

// NotFoundf is NotFound with a formatted reason.
func NotFoundf(code, format string, args ...any) error {
	return &Error{Kind: KindNotFound, Code: code, Reason: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in the chain, or 0.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// CodeOf returns the code of the first *Error in the chain, or "".
func CodeOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

func IsConflict(err error) bool { return KindOf(err) == KindConflict }
