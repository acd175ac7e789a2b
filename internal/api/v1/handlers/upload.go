package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "meetscribe/internal/api/errors"
	"meetscribe/internal/api/middleware"
	"meetscribe/internal/api/v1/dto"
	"meetscribe/internal/app/metrics"
	"meetscribe/internal/app/upload"
)

// UploadHandler issues deferred-upload credentials
type UploadHandler struct {
	storage upload.StorageService
	metrics *metrics.Pipeline
}

// NewUploadHandler creates a new upload handler. storage may be nil when no
// backend is configured.
func NewUploadHandler(storage upload.StorageService, m *metrics.Pipeline) *UploadHandler {
	return &UploadHandler{storage: storage, metrics: m}
}

// IssueCredential returns a short-lived presigned PUT credential
// @Summary Request a deferred-upload credential
// @Description For files between the inline ceiling and the 25 MB engine cap
// @Tags Uploads
// @Accept json
// @Produce json
// @Param request body dto.UploadCredentialRequest true "Upload descriptor"
// @Success 200 {object} dto.UploadCredentialResponse
// @Router /api/v1/uploads [post]
func (h *UploadHandler) IssueCredential(c *gin.Context) {
	if h.storage == nil {
		middleware.HandleError(c, apierrors.NewStorageUnavailableError("no object storage backend configured"))
		return
	}

	var req dto.UploadCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, apierrors.NewBadRequestError("invalid request: "+err.Error()))
		return
	}

	userID := c.GetString("user_id")
	cred, err := h.storage.IssueCredential(c.Request.Context(), userID, req.FileName, req.ContentType, req.FileSize)
	if err != nil {
		middleware.HandleError(c, mapError(err))
		return
	}

	h.metrics.CredentialsIssued.Inc()
	c.JSON(http.StatusOK, dto.UploadCredentialResponse{
		URL:       cred.URL,
		Method:    cred.Method,
		ObjectKey: cred.ObjectKey,
		ExpiresAt: cred.ExpiresAt,
	})
}
