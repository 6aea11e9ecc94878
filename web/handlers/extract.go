package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"clozesmith/utils"
	"clozesmith/web/services"
	"clozesmith/web/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxUploadBytes caps PDF uploads at 25 MiB.
const maxUploadBytes = 25 << 20

type ExtractHandler struct {
	source *services.SourceService
	logger *zap.Logger
}

func NewExtractHandler(source *services.SourceService, logger *zap.Logger) *ExtractHandler {
	return &ExtractHandler{source: source, logger: logger}
}

// Extract accepts a multipart PDF upload and returns its text. The file
// only lives in a temp directory for the duration of the request.
func (h *ExtractHandler) Extract(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, "a PDF file is required")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respondWithClientError(c, http.StatusRequestEntityTooLarge, "PDF is too large")
		return
	}

	name := utils.SanitizeFilename(fileHeader.Filename)
	if name == "" || !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		respondWithClientError(c, http.StatusBadRequest, "only PDF files are supported")
		return
	}

	tmpDir, err := os.MkdirTemp("", "clozesmith-upload-")
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "could not store upload", h.logger)
		return
	}
	defer os.RemoveAll(tmpDir)

	tmpPath := filepath.Join(tmpDir, utils.TempUploadName(name))
	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "could not store upload", h.logger)
		return
	}

	text, pages, err := h.source.ExtractText(tmpPath)
	if err != nil {
		respondWithError(c, http.StatusUnprocessableEntity, err, "could not read PDF", h.logger,
			zap.String("filename", name))
		return
	}

	c.JSON(http.StatusOK, types.ExtractResponse{
		Text:     text,
		Pages:    pages,
		Filename: name,
	})
}
