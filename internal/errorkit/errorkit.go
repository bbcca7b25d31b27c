// Package errorkit implements the pipeline's closed error taxonomy (spec §7)
// and the HTTP-status mapping the playground adapter uses to render it.
package errorkit

import (
	"errors"
	"fmt"
)

// Kind is one of the seven error classes the pipeline ever produces.
type Kind string

const (
	InvalidInput        Kind = "InvalidInput"
	HostileInput         Kind = "HostileInput"
	TooLarge             Kind = "TooLarge"
	UpstreamUnavailable  Kind = "UpstreamUnavailable"
	UpstreamRejected     Kind = "UpstreamRejected"
	StorageFailure       Kind = "StorageFailure"
	Cancelled            Kind = "Cancelled"
)

// Error is the concrete error type carried across component boundaries.
// Only C1 and C7 failures, and caller cancellation, ever cross a
// component boundary as an *Error; C2/C3/C5 best-effort failures are
// swallowed into degraded_steps instead (spec §7).
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs an *Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an *Error of the given kind, preserving cause for %w
// chains and errors.Is/As.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf extracts the Kind from err, defaulting to "" if err is not an
// *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// HTTPStatus maps a Kind to the status code the playground returns,
// per spec §7.
func HTTPStatus(kind Kind) int {
	switch kind {
	case InvalidInput, HostileInput:
		return 400
	case TooLarge:
		return 413
	case Cancelled:
		return 499
	case StorageFailure:
		return 500
	default:
		return 500
	}
}

// WrapWithContext wraps a plain error with additional context without
// assigning it a Kind. Used for internal plumbing errors that are not
// part of the taxonomy surfaced to callers.
func WrapWithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}
