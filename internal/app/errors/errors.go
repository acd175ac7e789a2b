package errors

import (
	"fmt"
)

// Common error types
var (
	// Pipeline errors
	ErrConsentRequired = New("recording and processing consent are both required")
	ErrJobConflict     = New("a transcription job is already in progress for this meeting")
	ErrJobNotFound     = New("transcription job not found")
	ErrMeetingNotFound = New("meeting not found")
	ErrAccessDenied    = New("access to meeting denied")

	// Upload errors
	ErrPayloadTooLarge    = New("file exceeds the maximum accepted size")
	ErrUnsupportedMedia   = New("unsupported audio content type")
	ErrStorageUnavailable = New("no object storage backend configured")
	ErrCredentialConsumed = New("upload credential already consumed")

	// Engine errors
	ErrEngineUnavailable = New("transcription engine unavailable")
	ErrEngineRejected    = New("transcription engine rejected the submission")

	// State machine errors
	ErrInvalidTransition = New("invalid job status transition")
)

// Error represents a standardized error
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// WrapSentinel attaches a sentinel to a lower-level cause so callers can use
// errors.Is against the sentinel while keeping the full chain in the message.
func WrapSentinel(sentinel *Error, cause error) error {
	if cause == nil {
		return sentinel
	}
	return &Error{
		message: sentinel.message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// NotFound returns an error for items that were not found
func NotFound(itemType string, identifier string) error {
	return Newf("%s not found: %s", itemType, identifier)
}

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return Newf("%s is required", field)
}
