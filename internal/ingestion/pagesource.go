package ingestion

import (
	"context"
	"fmt"
	"os"

	pdf "github.com/ledongthuc/pdf"

	apperrors "github.com/yungbote/edusummarize-backend/internal/pkg/errors"
	"github.com/yungbote/edusummarize-backend/internal/platform/gcp"
	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
)

// PageSource yields the ordered page texts of one document. A page may
// legitimately be empty (scanned image, blank page); a source failure is
// fatal for the ingestion run.
type PageSource interface {
	Pages(ctx context.Context) ([]string, error)
}

// PDFSource reads a local PDF and extracts text page by page.
type PDFSource struct {
	Path string
	log  *logger.Logger
}

func NewPDFSource(path string, baseLog *logger.Logger) *PDFSource {
	return &PDFSource{Path: path, log: baseLog.With("component", "PDFSource")}
}

func (s *PDFSource) Pages(ctx context.Context) ([]string, error) {
	f, r, err := pdf.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", apperrors.ErrExtraction, s.Path, err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page degrades to empty text instead of
			// failing the whole document.
			s.log.Warn("Failed to extract page text", "page", i, "error", err)
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	s.log.Info("PDF pages extracted", "path", s.Path, "pages", total)
	return pages, nil
}

// DocAISource extracts page text through the Document AI processor, for
// scanned books where local text extraction yields nothing.
type DocAISource struct {
	Path     string
	MimeType string
	doc      gcp.Document
	log      *logger.Logger
}

func NewDocAISource(path string, mimeType string, doc gcp.Document, baseLog *logger.Logger) *DocAISource {
	return &DocAISource{
		Path:     path,
		MimeType: mimeType,
		doc:      doc,
		log:      baseLog.With("component", "DocAISource"),
	}
}

func (s *DocAISource) Pages(ctx context.Context) ([]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", apperrors.ErrExtraction, s.Path, err)
	}
	pages, err := s.doc.ExtractPages(ctx, s.MimeType, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExtraction, err)
	}
	s.log.Info("Document AI pages extracted", "path", s.Path, "pages", len(pages))
	return pages, nil
}
