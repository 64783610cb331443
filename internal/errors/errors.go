package errors

import (
	stderrors "errors"
	"fmt"
)

// PlatformError represents a failure surfaced by the hosted platform or by
// local validation ahead of any remote call.
type PlatformError struct {
	Kind    Kind
	Message string
	Status  int   // HTTP status when the error came off the wire, else 0
	Err     error // wrapped cause, may be nil
}

func (e *PlatformError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s [%d]: %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// Validation creates a pre-flight validation error with a user-facing message.
func Validation(message string) *PlatformError {
	return &PlatformError{Kind: KindValidation, Message: message}
}

// NotFound creates a NOT_FOUND error for a named resource.
func NotFound(resource string) *PlatformError {
	return &PlatformError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource), Status: 404}
}

// Conflict creates a CONFLICT error (duplicate key, constraint violation).
func Conflict(message string) *PlatformError {
	return &PlatformError{Kind: KindConflict, Message: message, Status: 409}
}

// Network wraps a transport-level failure after retries were exhausted.
func Network(err error) *PlatformError {
	return &PlatformError{Kind: KindNetwork, Message: "request failed", Err: err}
}

// Remote builds an error from an HTTP status and response message.
func Remote(status int, message string) *PlatformError {
	return &PlatformError{Kind: ClassifyStatus(status), Message: message, Status: status}
}

// KindOf extracts the Kind from any error in the chain, KindUnknown otherwise.
func KindOf(err error) Kind {
	var pe *PlatformError
	if stderrors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// IsConflict reports whether the error chain contains a CONFLICT.
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

// IsNotFound reports whether the error chain contains a NOT_FOUND.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsValidation reports whether the error chain contains a VALIDATION error.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}
