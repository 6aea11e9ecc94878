package handlers

import (
	"errors"
	"net/http"
	"strings"

	"clozesmith/config"
	apperrors "clozesmith/errors"
	"clozesmith/llmclient"
	"clozesmith/web/services"
	"clozesmith/web/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxRequestChars caps the text accepted by the card endpoints; anything
// larger would not fit a prompt anyway.
const maxRequestChars = 200_000

// CardsHandler serves the refine, compose and rewrite endpoints.
type CardsHandler struct {
	cfg     *config.Config
	refine  *services.RefineService
	compose *services.ComposeService
	rewrite *services.RewriteService
	logger  *zap.Logger
}

func NewCardsHandler(cfg *config.Config, refine *services.RefineService, compose *services.ComposeService, rewrite *services.RewriteService, logger *zap.Logger) *CardsHandler {
	return &CardsHandler{
		cfg:     cfg,
		refine:  refine,
		compose: compose,
		rewrite: rewrite,
		logger:  logger,
	}
}

func (h *CardsHandler) Refine(c *gin.Context) {
	var req types.RefineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "text is required")
		return
	}
	model, ok := h.resolveModel(c, req.Model)
	if !ok {
		return
	}
	if !h.checkLength(c, req.Text) {
		return
	}

	resp, err := h.refine.Refine(c.Request.Context(), req.Text, model)
	if err != nil {
		h.respondModelError(c, err, "refine")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CardsHandler) Compose(c *gin.Context) {
	var req types.ComposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "notes are required")
		return
	}
	model, ok := h.resolveModel(c, req.Model)
	if !ok {
		return
	}
	if !h.checkLength(c, req.Notes) {
		return
	}

	resp, err := h.compose.Compose(c.Request.Context(), req.Notes, model)
	if err != nil {
		h.respondModelError(c, err, "compose")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CardsHandler) Rewrite(c *gin.Context) {
	var req types.RewriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "text is required")
		return
	}
	model, ok := h.resolveModel(c, req.Model)
	if !ok {
		return
	}
	if !h.checkLength(c, req.Text) {
		return
	}

	resp, err := h.rewrite.Rewrite(c.Request.Context(), req.Text, req.Instruction, model)
	if err != nil {
		h.respondModelError(c, err, "rewrite")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Models lists the configured model names for the UI selector.
func (h *CardsHandler) Models(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"models":  h.cfg.LLMModels,
		"default": h.cfg.DefaultModel,
	})
}

func (h *CardsHandler) resolveModel(c *gin.Context, name string) (string, bool) {
	if !h.cfg.ModelAllowed(name) {
		respondWithClientError(c, http.StatusBadRequest, "unknown model")
		return "", false
	}
	return h.cfg.ResolveModel(name), true
}

func (h *CardsHandler) checkLength(c *gin.Context, text string) bool {
	if strings.TrimSpace(text) == "" {
		respondWithClientError(c, http.StatusBadRequest, "text is empty")
		return false
	}
	if len(text) > maxRequestChars {
		respondWithClientError(c, http.StatusRequestEntityTooLarge, "text is too large")
		return false
	}
	return true
}

func (h *CardsHandler) respondModelError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, llmclient.ErrContextWindowExceeded):
		respondWithClientError(c, http.StatusRequestEntityTooLarge, "text is too long for the model's context window")
	case apperrors.IsServiceUnavailable(err):
		respondWithError(c, http.StatusServiceUnavailable, err, "model backend is unavailable", h.logger, zap.String("op", op))
	default:
		respondWithError(c, http.StatusBadGateway, err, "model call failed", h.logger, zap.String("op", op))
	}
}
