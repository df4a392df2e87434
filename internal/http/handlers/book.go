package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/edusummarize-backend/internal/http/response"
	"github.com/yungbote/edusummarize-backend/internal/ingestion"
	"github.com/yungbote/edusummarize-backend/internal/platform/gcp"
	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
	"github.com/yungbote/edusummarize-backend/internal/services"
)

type pageRangeBody struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type ingestBookBody struct {
	Title        string                   `json:"title" binding:"required"`
	Author       string                   `json:"author"`
	FilePath     string                   `json:"file_path" binding:"required"`
	Pattern      string                   `json:"pattern"`
	CustomRanges map[string]pageRangeBody `json:"custom_ranges"`
	Extractor    string                   `json:"extractor"`
	MimeType     string                   `json:"mime_type"`
}

type BookHandler struct {
	log         *logger.Logger
	bookService services.BookService
	docClient   gcp.Document
}

func NewBookHandler(log *logger.Logger, bookService services.BookService, docClient gcp.Document) *BookHandler {
	return &BookHandler{
		log:         log.With("handler", "BookHandler"),
		bookService: bookService,
		docClient:   docClient,
	}
}

func (h *BookHandler) IngestBook(c *gin.Context) {
	var body ingestBookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	source, err := h.pageSource(body)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_extractor", err)
		return
	}

	var ranges map[string]ingestion.PageRange
	if len(body.CustomRanges) > 0 {
		ranges = make(map[string]ingestion.PageRange, len(body.CustomRanges))
		for label, r := range body.CustomRanges {
			ranges[label] = ingestion.PageRange{Start: r.Start, End: r.End}
		}
	}

	book, chapters, err := h.bookService.IngestBook(c.Request.Context(), services.IngestBookInput{
		Title:        body.Title,
		Author:       body.Author,
		FilePath:     body.FilePath,
		Pattern:      body.Pattern,
		CustomRanges: ranges,
		Source:       source,
	})
	if err != nil {
		h.log.Error("IngestBook failed", "error", err, "title", body.Title)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"book": book, "chapters": chapters})
}

// pageSource selects the text extraction backend. Document AI is only
// available when its client was configured at startup.
func (h *BookHandler) pageSource(body ingestBookBody) (ingestion.PageSource, error) {
	switch body.Extractor {
	case "", "pdf":
		return ingestion.NewPDFSource(body.FilePath, h.log), nil
	case "documentai":
		if h.docClient == nil {
			return nil, fmt.Errorf("document ai extractor is not configured")
		}
		mimeType := body.MimeType
		if mimeType == "" {
			mimeType = "application/pdf"
		}
		return ingestion.NewDocAISource(body.FilePath, mimeType, h.docClient, h.log), nil
	default:
		return nil, fmt.Errorf("unknown extractor %q", body.Extractor)
	}
}

func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.bookService.ListBooks(c.Request.Context())
	if err != nil {
		h.log.Error("ListBooks failed", "error", err)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"books": books})
}

func (h *BookHandler) GetBook(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_book_id", err)
		return
	}
	book, err := h.bookService.GetBook(c.Request.Context(), bookID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"book": book})
}

func (h *BookHandler) GetChapters(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_book_id", err)
		return
	}
	chapters, err := h.bookService.GetChapters(c.Request.Context(), bookID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"chapters": chapters})
}

func (h *BookHandler) DeleteBook(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_book_id", err)
		return
	}
	if err := h.bookService.DeleteBook(c.Request.Context(), bookID); err != nil {
		h.log.Error("DeleteBook failed", "error", err, "book_id", bookID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": fmt.Sprintf("Book %s deleted", bookID)})
}
