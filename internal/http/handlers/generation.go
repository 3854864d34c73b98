package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deloreyj/conversa/internal/generation"
	"github.com/deloreyj/conversa/internal/http/response"
	"github.com/deloreyj/conversa/internal/services"
)

type GenerationHandler struct {
	runner services.GenerationService
}

func NewGenerationHandler(runner services.GenerationService) *GenerationHandler {
	return &GenerationHandler{runner: runner}
}

type generateRequest struct {
	UserPrompt string `json:"userPrompt" binding:"required,min=1,max=1000"`
	OwnerID    string `json:"ownerId"`
	Visibility string `json:"visibility"`
}

// POST /api/packs/generate
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	runID, err := h.runner.Start(c.Request.Context(), generation.Payload{
		UserPrompt: req.UserPrompt,
		OwnerID:    req.OwnerID,
		Visibility: req.Visibility,
	})
	if err != nil {
		switch {
		case errors.Is(err, generation.ErrAmbiguousRequest),
			errors.Is(err, generation.ErrPromptTooLong):
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		case errors.Is(err, services.ErrTemporalDisabled):
			response.RespondError(c, http.StatusServiceUnavailable, "temporal_unavailable", err)
		default:
			response.RespondError(c, http.StatusInternalServerError, "start_generation_failed", err)
		}
		return
	}

	response.RespondAccepted(c, gin.H{"runId": runID, "status": services.RunStatusRunning})
}

// GET /api/generations/:id
func (h *GenerationHandler) GetStatus(c *gin.Context) {
	status, err := h.runner.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRunNotFound):
			response.RespondError(c, http.StatusNotFound, "run_not_found", err)
		case errors.Is(err, services.ErrTemporalDisabled):
			response.RespondError(c, http.StatusServiceUnavailable, "temporal_unavailable", err)
		default:
			response.RespondError(c, http.StatusInternalServerError, "get_status_failed", err)
		}
		return
	}

	response.RespondOK(c, status)
}
