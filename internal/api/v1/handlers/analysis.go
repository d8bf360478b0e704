package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"speech-insight/internal/api/middleware"
	"speech-insight/internal/api/v1/dto"
	"speech-insight/internal/api/v1/services"
	"speech-insight/internal/app/model"
)

// AnalysisHandler serves the stored pipeline results of a recording
type AnalysisHandler struct {
	service services.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// respond binds the :id path parameter, calls fetch and writes its result as JSON
func respond[T any](c *gin.Context, fetch func(id string) (T, error)) {
	var path dto.AudioPath
	if err := middleware.ValidateURI(c, &path); err != nil {
		middleware.HandleError(c, err)
		return
	}

	result, err := fetch(path.ID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Transcript handles GET /api/v1/analysis/:id/transcript
//
// @Summary Get the transcript
// @Tags analysis
// @Produce json
// @Param id path string true "Audio ID" format(uuid)
// @Success 200 {object} model.Transcript
// @Failure 404 {object} errors.APIError "Transcript not found"
// @Router /analysis/{id}/transcript [get]
func (h *AnalysisHandler) Transcript(c *gin.Context) {
	respond(c, func(id string) (*model.Transcript, error) {
		return h.service.GetTranscript(c.Request.Context(), id)
	})
}

// Sentiment handles GET /api/v1/analysis/:id/sentiment
//
// @Summary Get overall and per-segment sentiment
// @Tags analysis
// @Produce json
// @Param id path string true "Audio ID" format(uuid)
// @Success 200 {object} dto.SentimentResponse
// @Failure 404 {object} errors.APIError "Analysis not found"
// @Router /analysis/{id}/sentiment [get]
func (h *AnalysisHandler) Sentiment(c *gin.Context) {
	respond(c, func(id string) (*dto.SentimentResponse, error) {
		return h.service.GetSentiment(c.Request.Context(), id)
	})
}

// Entities handles GET /api/v1/analysis/:id/entities
//
// @Summary Get named entities
// @Tags analysis
// @Produce json
// @Param id path string true "Audio ID" format(uuid)
// @Param label query string false "Only entities with this label, e.g. PERSON"
// @Success 200 {object} dto.EntitiesResponse
// @Failure 404 {object} errors.APIError "Transcript not found"
// @Router /analysis/{id}/entities [get]
func (h *AnalysisHandler) Entities(c *gin.Context) {
	var query dto.EntitiesQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}
	respond(c, func(id string) (*dto.EntitiesResponse, error) {
		return h.service.GetEntities(c.Request.Context(), id, query.Label)
	})
}

// Summary handles GET /api/v1/analysis/:id/summary
//
// @Summary Get summary, key phrases, action items and topics
// @Tags analysis
// @Produce json
// @Param id path string true "Audio ID" format(uuid)
// @Success 200 {object} dto.SummaryResponse
// @Failure 404 {object} errors.APIError "Analysis not found"
// @Router /analysis/{id}/summary [get]
func (h *AnalysisHandler) Summary(c *gin.Context) {
	respond(c, func(id string) (*dto.SummaryResponse, error) {
		return h.service.GetSummary(c.Request.Context(), id)
	})
}

// Full handles GET /api/v1/analysis/:id/full
//
// @Summary Get the complete analysis
// @Description Parts that do not exist yet are omitted; processing_complete tells whether the run finished
// @Tags analysis
// @Produce json
// @Param id path string true "Audio ID" format(uuid)
// @Success 200 {object} dto.FullAnalysisResponse
// @Failure 404 {object} errors.APIError "Audio file not found"
// @Router /analysis/{id}/full [get]
func (h *AnalysisHandler) Full(c *gin.Context) {
	respond(c, func(id string) (*dto.FullAnalysisResponse, error) {
		return h.service.GetFullAnalysis(c.Request.Context(), id)
	})
}
