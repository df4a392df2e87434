package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/edusummarize-backend/internal/http/response"
	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
	"github.com/yungbote/edusummarize-backend/internal/services"
)

type understandingBody struct {
	Understood *bool `json:"understood" binding:"required"`
}

type SessionHandler struct {
	log            *logger.Logger
	sessionService services.LearningSessionService
}

func NewSessionHandler(log *logger.Logger, sessionService services.LearningSessionService) *SessionHandler {
	return &SessionHandler{
		log:            log.With("handler", "SessionHandler"),
		sessionService: sessionService,
	}
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_chapter_id", err)
		return
	}
	view, err := h.sessionService.StartSession(c.Request.Context(), chapterID)
	if err != nil {
		h.log.Error("StartSession failed", "error", err, "chapter_id", chapterID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, view)
}

func (h *SessionHandler) ProcessUnderstanding(c *gin.Context) {
	conceptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_concept_id", err)
		return
	}
	var body understandingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	feedback, err := h.sessionService.ProcessConceptUnderstanding(c.Request.Context(), conceptID, *body.Understood)
	if err != nil {
		h.log.Error("ProcessUnderstanding failed", "error", err, "concept_id", conceptID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, feedback)
}

func (h *SessionHandler) GetChapterProgress(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_chapter_id", err)
		return
	}
	progress, err := h.sessionService.GetChapterProgress(c.Request.Context(), chapterID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, progress)
}

func (h *SessionHandler) GetBookProgress(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_book_id", err)
		return
	}
	progress, err := h.sessionService.GetBookProgress(c.Request.Context(), bookID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, progress)
}

func (h *SessionHandler) ResetChapterProgress(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_chapter_id", err)
		return
	}
	msg, err := h.sessionService.ResetChapterProgress(c.Request.Context(), chapterID)
	if err != nil {
		h.log.Error("ResetChapterProgress failed", "error", err, "chapter_id", chapterID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": msg})
}
