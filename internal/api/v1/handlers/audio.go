package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"speech-insight/internal/api/errors"
	"speech-insight/internal/api/middleware"
	"speech-insight/internal/api/v1/dto"
	"speech-insight/internal/api/v1/services"
)

// multipartOverhead is allowed on top of the file size limit for form boundaries and headers
const multipartOverhead = 1 << 20

// AudioHandler handles audio upload, listing and processing endpoints
type AudioHandler struct {
	service      services.AudioService
	maxFileBytes int64
}

// NewAudioHandler creates a new audio handler. maxFileBytes <= 0 disables the body limit.
func NewAudioHandler(service services.AudioService, maxFileBytes int64) *AudioHandler {
	return &AudioHandler{
		service:      service,
		maxFileBytes: maxFileBytes,
	}
}

// Upload handles POST /api/v1/audio/upload
//
// @Summary Upload an audio file
// @Description Stores an mp3, wav, m4a, flac or ogg file and creates a pending record
// @Tags audio
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Audio file"
// @Success 201 {object} dto.UploadResponse "File stored"
// @Failure 400 {object} errors.APIError "Missing file or unsupported format"
// @Failure 413 {object} errors.APIError "File too large"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /audio/upload [post]
func (h *AudioHandler) Upload(c *gin.Context) {
	if h.maxFileBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileBytes+multipartOverhead)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			middleware.HandleError(c, errors.NewTooLargeError("File too large"))
			return
		}
		middleware.HandleError(c, errors.NewBadRequestError("No file uploaded"))
		return
	}
	defer file.Close()

	response, err := h.service.Upload(c.Request.Context(), header.Filename, file, header.Size)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Process handles POST /api/v1/audio/:id/process
//
// @Summary Run the analysis pipeline
// @Description Starts transcription and analysis in the background, or inline with sync=true
// @Tags audio
// @Produce json
// @Param id path string true "Audio ID" format(uuid)
// @Param sync query bool false "Wait for the result"
// @Success 200 {object} dto.ProcessResponse "Inline run finished"
// @Success 202 {object} dto.ProcessResponse "Background run started"
// @Failure 400 {object} errors.APIError "Already processing or processed"
// @Failure 404 {object} errors.APIError "Audio file not found"
// @Failure 500 {object} errors.APIError "Pipeline failed"
// @Router /audio/{id}/process [post]
func (h *AudioHandler) Process(c *gin.Context) {
	var path dto.AudioPath
	if err := middleware.ValidateURI(c, &path); err != nil {
		middleware.HandleError(c, err)
		return
	}
	var query dto.ProcessQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.Process(c.Request.Context(), path.ID, query.Sync)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	if query.Sync {
		c.JSON(http.StatusOK, response)
		return
	}
	c.JSON(http.StatusAccepted, response)
}

// List handles GET /api/v1/audio
//
// @Summary List audio files
// @Description Newest first, optionally filtered by status
// @Tags audio
// @Produce json
// @Param skip query int false "Records to skip" default(0) minimum(0)
// @Param limit query int false "Page size" default(20) minimum(1) maximum(100)
// @Param status query string false "Filter by status" Enums(pending,processing,completed,failed)
// @Success 200 {object} dto.AudioListResponse "One page of audio files"
// @Failure 400 {object} errors.APIError "Invalid query parameters"
// @Header 200 {string} X-Total-Count "Total number of matching files"
// @Router /audio [get]
func (h *AudioHandler) List(c *gin.Context) {
	var query dto.ListAudioQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.ListAudio(c.Request.Context(), query)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(response.Total))
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/v1/audio/:id
//
// @Summary Get an audio file
// @Tags audio
// @Produce json
// @Param id path string true "Audio ID" format(uuid)
// @Success 200 {object} model.AudioRecord "Audio file"
// @Failure 404 {object} errors.APIError "Audio file not found"
// @Router /audio/{id} [get]
func (h *AudioHandler) Get(c *gin.Context) {
	var path dto.AudioPath
	if err := middleware.ValidateURI(c, &path); err != nil {
		middleware.HandleError(c, err)
		return
	}

	record, err := h.service.GetAudio(c.Request.Context(), path.ID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// Delete handles DELETE /api/v1/audio/:id
//
// @Summary Delete an audio file
// @Description Removes the record, its transcript, analysis and entities, and the stored file
// @Tags audio
// @Param id path string true "Audio ID" format(uuid)
// @Success 204 "Deleted"
// @Failure 404 {object} errors.APIError "Audio file not found"
// @Router /audio/{id} [delete]
func (h *AudioHandler) Delete(c *gin.Context) {
	var path dto.AudioPath
	if err := middleware.ValidateURI(c, &path); err != nil {
		middleware.HandleError(c, err)
		return
	}

	if err := h.service.DeleteAudio(c.Request.Context(), path.ID); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
