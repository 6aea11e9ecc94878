package handlers

import (
	"net/http"
	"strconv"

	apperrors "clozesmith/errors"
	"clozesmith/store"
	"clozesmith/web/services"
	"clozesmith/web/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// listLearnedLimit bounds the learned-edit listing for the UI.
const listLearnedLimit = 100

// LibraryHandler serves the learned-edit and style-seed endpoints.
type LibraryHandler struct {
	library *store.Library
	logger  *zap.Logger
}

func NewLibraryHandler(library *store.Library, logger *zap.Logger) *LibraryHandler {
	return &LibraryHandler{library: library, logger: logger}
}

func (h *LibraryHandler) ListLearned(c *gin.Context) {
	edits, err := h.library.RecentLearnedEdits(c.Request.Context(), listLearnedLimit)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "could not load learned edits", h.logger)
		return
	}
	views := make([]types.LearnedEditView, 0, len(edits))
	for _, e := range edits {
		views = append(views, types.LearnedEditView{
			ID:         e.ID,
			CardBefore: e.CardBefore,
			CardAfter:  e.CardAfter,
			CreatedAt:  e.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"edits": views})
}

func (h *LibraryHandler) AddLearned(c *gin.Context) {
	var req types.LearnedEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "card_before and card_after are required")
		return
	}
	id, err := h.library.AddLearnedEdit(c.Request.Context(), req.CardBefore, req.CardAfter)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "could not save learned edit", h.logger)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *LibraryHandler) DeleteLearned(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, "invalid edit id")
		return
	}
	if err := h.library.DeleteLearnedEdit(c.Request.Context(), id); err != nil {
		if apperrors.IsNotFound(err) {
			respondWithClientError(c, http.StatusNotFound, "learned edit not found")
			return
		}
		respondWithError(c, http.StatusInternalServerError, err, "could not delete learned edit", h.logger,
			zap.Int64("id", id))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *LibraryHandler) GetStyleSeed(c *gin.Context) {
	seed, err := h.library.StyleSeed(c.Request.Context(), services.DefaultStyleSeedName)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "could not load style seed", h.logger)
		return
	}
	c.JSON(http.StatusOK, types.StyleSeedResponse{Content: seed})
}

func (h *LibraryHandler) PutStyleSeed(c *gin.Context) {
	var req types.StyleSeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "invalid style seed body")
		return
	}
	if err := h.library.SetStyleSeed(c.Request.Context(), services.DefaultStyleSeedName, req.Content); err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "could not save style seed", h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}
