package handlers

import (
	stderrors "errors"

	apierrors "meetscribe/internal/api/errors"
	apperrors "meetscribe/internal/app/errors"
	"meetscribe/internal/app/extraction"
)

// mapError translates app-level errors to their API representation with a
// stable kind. Unmapped errors become internal errors so no storage or
// engine detail leaks to the client.
func mapError(err error) *apierrors.APIError {
	if err == nil {
		return nil
	}

	if apiErr, ok := err.(*apierrors.APIError); ok {
		return apiErr
	}

	var validationErr *extraction.ValidationError
	if stderrors.As(err, &validationErr) {
		return apierrors.NewValidationError("extraction failed validation", validationErr.Messages())
	}

	switch {
	case stderrors.Is(err, apperrors.ErrConsentRequired):
		return apierrors.NewConsentRequiredError(err.Error())
	case stderrors.Is(err, apperrors.ErrJobConflict):
		return apierrors.NewConflictError("a transcription is already in progress for this meeting")
	case stderrors.Is(err, apperrors.ErrJobNotFound):
		return apierrors.NewNotFoundError("transcription job")
	case stderrors.Is(err, apperrors.ErrMeetingNotFound):
		return apierrors.NewNotFoundError("meeting")
	case stderrors.Is(err, apperrors.ErrAccessDenied):
		return apierrors.NewForbiddenError("access to meeting denied")
	case stderrors.Is(err, apperrors.ErrPayloadTooLarge):
		return apierrors.NewPayloadTooLargeError("file exceeds the maximum accepted size")
	case stderrors.Is(err, apperrors.ErrUnsupportedMedia):
		return apierrors.NewUnsupportedMediaError("unsupported audio content type")
	case stderrors.Is(err, apperrors.ErrStorageUnavailable):
		return apierrors.NewStorageUnavailableError("no object storage backend configured")
	case stderrors.Is(err, apperrors.ErrCredentialConsumed):
		return apierrors.NewBadRequestError("upload credential already consumed")
	case stderrors.Is(err, apperrors.ErrEngineUnavailable),
		stderrors.Is(err, apperrors.ErrEngineRejected):
		return apierrors.NewExternalServiceError("transcription engine rejected the submission")
	default:
		return apierrors.NewInternalError("internal error")
	}
}
