package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "meetscribe/internal/api/errors"
	"meetscribe/internal/api/middleware"
	"meetscribe/internal/api/v1/dto"
	apperrors "meetscribe/internal/app/errors"
	"meetscribe/internal/app/retention"
	"meetscribe/internal/app/transcription"
)

// TranscriptionHandler handles transcription job HTTP requests
type TranscriptionHandler struct {
	manager   *transcription.Manager
	retention *retention.Manager
}

// NewTranscriptionHandler creates a new transcription handler
func NewTranscriptionHandler(manager *transcription.Manager, retention *retention.Manager) *TranscriptionHandler {
	return &TranscriptionHandler{manager: manager, retention: retention}
}

// Start creates a new transcription job for a meeting
// @Summary Start a transcription job
// @Description Submits meeting audio to the transcription engine and creates a job
// @Tags Transcriptions
// @Accept multipart/form-data
// @Produce json
// @Param meeting_id formData string true "Meeting ID"
// @Param consent_recording formData bool true "Recording consent"
// @Param consent_processing formData bool true "Processing consent"
// @Param audio formData file false "Audio file (inline path)"
// @Param object_key formData string false "Stored object key (deferred path)"
// @Success 201 {object} dto.StartTranscriptionResponse
// @Router /api/v1/transcriptions [post]
func (h *TranscriptionHandler) Start(c *gin.Context) {
	userID := c.GetString("user_id")

	meetingID := c.PostForm("meeting_id")
	if meetingID == "" {
		middleware.HandleError(c, apierrors.NewBadRequestError("meeting_id is required"))
		return
	}

	consentRecording, _ := strconv.ParseBool(c.PostForm("consent_recording"))
	consentProcessing, _ := strconv.ParseBool(c.PostForm("consent_processing"))

	req := transcription.StartRequest{
		MeetingID:         meetingID,
		UserID:            userID,
		ConsentRecording:  consentRecording,
		ConsentProcessing: consentProcessing,
		Language:          c.PostForm("language"),
		ObjectKey:         c.PostForm("object_key"),
	}

	file, header, err := c.Request.FormFile("audio")
	if err == nil {
		defer file.Close()
		if req.ObjectKey != "" {
			middleware.HandleError(c, apierrors.NewBadRequestError("provide either an audio file or an object_key, not both"))
			return
		}
		req.Audio = file
		req.FileName = header.Filename
		req.ContentType = header.Header.Get("Content-Type")
		req.Size = header.Size
	} else if req.ObjectKey == "" {
		middleware.HandleError(c, apierrors.NewBadRequestError("either an audio file or an object_key is required"))
		return
	}

	result, err := h.manager.Start(c.Request.Context(), req)
	if err != nil {
		// On the inline path an oversized file is a malformed request, not
		// an entity-too-large condition: the caller should switch to the
		// deferred upload flow.
		if req.Audio != nil && stderrors.Is(err, apperrors.ErrPayloadTooLarge) {
			middleware.HandleError(c, apierrors.NewBadRequestError(
				"audio exceeds the inline size ceiling; request a deferred-upload credential instead"))
			return
		}
		middleware.HandleError(c, mapError(err))
		return
	}

	c.JSON(http.StatusCreated, dto.StartTranscriptionResponse{
		JobID:         result.JobID,
		ExternalJobID: result.ExternalJobID,
	})
}

// Get returns one transcription job
// @Summary Get a transcription job
// @Tags Transcriptions
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} dto.TranscriptionJobResponse
// @Router /api/v1/transcriptions/{id} [get]
func (h *TranscriptionHandler) Get(c *gin.Context) {
	userID := c.GetString("user_id")

	job, err := h.manager.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		middleware.HandleError(c, mapError(err))
		return
	}

	c.JSON(http.StatusOK, dto.FromJob(job))
}

// ListByMeeting returns all jobs for a meeting
// @Summary List a meeting's transcription jobs
// @Tags Transcriptions
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} dto.TranscriptionJobListResponse
// @Router /api/v1/meetings/{id}/transcriptions [get]
func (h *TranscriptionHandler) ListByMeeting(c *gin.Context) {
	userID := c.GetString("user_id")

	jobs, err := h.manager.ListByMeeting(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		middleware.HandleError(c, mapError(err))
		return
	}

	resp := dto.TranscriptionJobListResponse{
		Jobs:  make([]dto.TranscriptionJobResponse, 0, len(jobs)),
		Total: len(jobs),
	}
	for i := range jobs {
		resp.Jobs = append(resp.Jobs, dto.FromJob(&jobs[i]))
	}

	c.JSON(http.StatusOK, resp)
}

// Delete soft-deletes a job, scrubbing its transcript content
// @Summary Soft-delete a transcription job
// @Description Marks the job deleted and scrubs transcript text and segments
// @Tags Transcriptions
// @Param id path string true "Job ID"
// @Success 204
// @Router /api/v1/transcriptions/{id} [delete]
func (h *TranscriptionHandler) Delete(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := h.retention.SoftDelete(c.Request.Context(), c.Param("id"), userID); err != nil {
		middleware.HandleError(c, mapError(err))
		return
	}

	c.Status(http.StatusNoContent)
}
