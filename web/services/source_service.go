package services

import (
	"fmt"
	"strings"

	"clozesmith/config"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// SourceService extracts plain text from uploaded PDFs to feed the
// compose flow.
type SourceService struct {
	cfg    *config.Config
	logger *zap.Logger
}

func NewSourceService(cfg *config.Config, logger *zap.Logger) *SourceService {
	return &SourceService{cfg: cfg, logger: logger}
}

// ExtractText pulls text from the PDF at path, one page marker per page,
// stopping at the configured page cap. Pages that fail to extract are
// skipped rather than failing the whole document. Returns the text and
// the number of pages actually read.
func (ss *SourceService) ExtractText(path string) (string, int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	totalPages := r.NumPage()
	limit := totalPages
	if ss.cfg.MaxPDFPages > 0 && limit > ss.cfg.MaxPDFPages {
		limit = ss.cfg.MaxPDFPages
	}

	ss.logger.Debug("Extracting text from PDF",
		zap.String("path", path),
		zap.Int("pages", totalPages),
		zap.Int("page_limit", limit))

	var fullText strings.Builder
	read := 0
	for pageNum := 1; pageNum <= limit; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			ss.logger.Warn("Skipping null page", zap.Int("page", pageNum))
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			ss.logger.Warn("Failed to extract text from page",
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}

		// Add page marker for context
		fullText.WriteString(fmt.Sprintf("--- Page %d ---\n", pageNum))
		fullText.WriteString(text)
		fullText.WriteString("\n\n")
		read++
	}

	if limit < totalPages {
		fullText.WriteString(fmt.Sprintf("[... %d further pages not extracted (page limit) ...]\n", totalPages-limit))
	}

	extracted := fullText.String()
	ss.logger.Info("PDF text extraction completed",
		zap.String("path", path),
		zap.Int("pages_read", read),
		zap.Int("pages_total", totalPages),
		zap.Int("characters", len(extracted)))

	return extracted, read, nil
}
