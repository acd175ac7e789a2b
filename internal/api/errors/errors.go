package errors

import (
	"fmt"
	"net/http"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindForbidden          ErrorKind = "forbidden"
	KindConflict           ErrorKind = "conflict"
	KindConsentRequired    ErrorKind = "consent_required"
	KindPayloadTooLarge    ErrorKind = "payload_too_large"
	KindUnsupportedMedia   ErrorKind = "unsupported_media"
	KindStorageUnavailable ErrorKind = "storage_unavailable"
	KindExternalService    ErrorKind = "external_service"
	KindInternal           ErrorKind = "internal"
	KindBadRequest         ErrorKind = "bad_request"
)

// APIError represents a structured API error response
type APIError struct {
	Kind       ErrorKind         `json:"kind"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Violations []string          `json:"violations,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest, KindConsentRequired:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case KindStorageUnavailable:
		return http.StatusServiceUnavailable
	case KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error carrying the full list of
// violations found, not just the first.
func NewValidationError(message string, violations []string) *APIError {
	return &APIError{
		Kind:       KindValidation,
		Message:    message,
		Violations: violations,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) *APIError {
	return &APIError{
		Kind:    KindForbidden,
		Message: message,
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *APIError {
	return &APIError{
		Kind:    KindConflict,
		Message: message,
	}
}

// NewConsentRequiredError creates a consent gate error
func NewConsentRequiredError(message string) *APIError {
	return &APIError{
		Kind:    KindConsentRequired,
		Message: message,
	}
}

// NewPayloadTooLargeError creates a payload size error
func NewPayloadTooLargeError(message string) *APIError {
	return &APIError{
		Kind:    KindPayloadTooLarge,
		Message: message,
	}
}

// NewUnsupportedMediaError creates an unsupported media type error
func NewUnsupportedMediaError(message string) *APIError {
	return &APIError{
		Kind:    KindUnsupportedMedia,
		Message: message,
	}
}

// NewStorageUnavailableError creates a storage backend error
func NewStorageUnavailableError(message string) *APIError {
	return &APIError{
		Kind:    KindStorageUnavailable,
		Message: message,
	}
}

// NewExternalServiceError creates an upstream engine error
func NewExternalServiceError(message string) *APIError {
	return &APIError{
		Kind:    KindExternalService,
		Message: message,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}
