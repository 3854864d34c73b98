package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/deloreyj/conversa/internal/data/repos/packs"
	"github.com/deloreyj/conversa/internal/http/response"
	"github.com/deloreyj/conversa/internal/services"
)

type PackHandler struct {
	packs services.PackService
}

func NewPackHandler(packSvc services.PackService) *PackHandler {
	return &PackHandler{packs: packSvc}
}

// GET /api/packs
func (h *PackHandler) ListPacks(c *gin.Context) {
	rows, err := h.packs.List(c.Request.Context(), c.Query("ownerId"))
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_packs_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"packs": rows})
}

// GET /api/packs/:id
func (h *PackHandler) GetPack(c *gin.Context) {
	packID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_pack_id", err)
		return
	}
	pack, err := h.packs.GetByID(c.Request.Context(), packID)
	if err != nil {
		if errors.Is(err, packs.ErrPackNotFound) {
			response.RespondError(c, http.StatusNotFound, "pack_not_found", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "get_pack_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"pack": pack})
}

// GET /api/packs/slug/:slug
func (h *PackHandler) GetPackBySlug(c *gin.Context) {
	pack, err := h.packs.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, packs.ErrPackNotFound) {
			response.RespondError(c, http.StatusNotFound, "pack_not_found", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "get_pack_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"pack": pack})
}

type appendCardsRequest struct {
	AdditionalCards int    `json:"additionalCards" binding:"omitempty,min=1,max=50"`
	CustomPrompt    string `json:"customPrompt" binding:"omitempty,max=1000"`
}

// POST /api/packs/:id/cards
func (h *PackHandler) AppendCards(c *gin.Context) {
	packID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_pack_id", err)
		return
	}
	var req appendCardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	runID, err := h.packs.StartAppend(c.Request.Context(), packID, req.AdditionalCards, req.CustomPrompt)
	if err != nil {
		switch {
		case errors.Is(err, packs.ErrPackNotFound):
			response.RespondError(c, http.StatusNotFound, "pack_not_found", err)
		case errors.Is(err, services.ErrTemporalDisabled):
			response.RespondError(c, http.StatusServiceUnavailable, "temporal_unavailable", err)
		default:
			response.RespondError(c, http.StatusInternalServerError, "append_cards_failed", err)
		}
		return
	}

	response.RespondAccepted(c, gin.H{"runId": runID, "status": services.RunStatusRunning})
}

// DELETE /api/packs/:id
func (h *PackHandler) DeletePack(c *gin.Context) {
	packID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_pack_id", err)
		return
	}
	if err := h.packs.Delete(c.Request.Context(), packID); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "delete_pack_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}
