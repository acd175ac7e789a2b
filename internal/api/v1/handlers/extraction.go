package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "meetscribe/internal/api/errors"
	"meetscribe/internal/api/middleware"
	"meetscribe/internal/api/v1/dto"
	"meetscribe/internal/app/extraction"
	"meetscribe/internal/app/importer"
	"meetscribe/internal/app/metrics"
)

// ExtractionHandler validates reviewed extractions and imports the selected
// items
type ExtractionHandler struct {
	importer *importer.Importer
	metrics  *metrics.Pipeline
}

// NewExtractionHandler creates a new extraction handler
func NewExtractionHandler(imp *importer.Importer, m *metrics.Pipeline) *ExtractionHandler {
	return &ExtractionHandler{importer: imp, metrics: m}
}

// Save validates an extraction and imports the user-approved subset
// @Summary Save a reviewed extraction
// @Description Validates the extraction schema, then materializes selected decisions and actions
// @Tags Extractions
// @Accept json
// @Produce json
// @Param request body dto.SaveExtractionRequest true "Reviewed extraction"
// @Success 200 {object} dto.SaveExtractionResponse
// @Router /api/v1/extractions [post]
func (h *ExtractionHandler) Save(c *gin.Context) {
	var req dto.SaveExtractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, apierrors.NewBadRequestError("invalid request: "+err.Error()))
		return
	}

	ext, err := extraction.Validate(req.Extracted)
	if err != nil {
		middleware.HandleError(c, mapError(err))
		return
	}

	userID := c.GetString("user_id")
	result, err := h.importer.Import(c.Request.Context(), importer.ImportRequest{
		MeetingID:   req.MeetingID,
		UserID:      userID,
		Extraction:  ext,
		Selections:  req.Selections,
		CleanedText: req.CleanedText,
		MeetingData: importer.MeetingData{
			Title:        req.MeetingData.Title,
			Date:         req.MeetingData.Date,
			Participants: req.MeetingData.Participants,
			Context:      req.MeetingData.Context,
		},
	})
	if err != nil {
		middleware.HandleError(c, mapError(err))
		return
	}

	h.metrics.ItemsImported.WithLabelValues("decision").Add(float64(len(result.CreatedDecisions)))
	h.metrics.ItemsImported.WithLabelValues("action").Add(float64(len(result.CreatedActions)))
	h.metrics.ItemsSkipped.Add(float64(len(result.Skipped)))

	c.JSON(http.StatusOK, dto.SaveExtractionResponse{
		MeetingID:        result.MeetingID,
		CreatedDecisions: result.CreatedDecisions,
		CreatedActions:   result.CreatedActions,
		Skipped:          result.Skipped,
	})
}
