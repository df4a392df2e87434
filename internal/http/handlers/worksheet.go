package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/edusummarize-backend/internal/http/response"
	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
	"github.com/yungbote/edusummarize-backend/internal/services"
)

type WorksheetHandler struct {
	log              *logger.Logger
	worksheetService services.WorksheetService
}

func NewWorksheetHandler(log *logger.Logger, worksheetService services.WorksheetService) *WorksheetHandler {
	return &WorksheetHandler{
		log:              log.With("handler", "WorksheetHandler"),
		worksheetService: worksheetService,
	}
}

func (h *WorksheetHandler) GenerateWorksheet(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_chapter_id", err)
		return
	}
	view, err := h.worksheetService.GenerateWorksheet(c.Request.Context(), chapterID)
	if err != nil {
		h.log.Error("GenerateWorksheet failed", "error", err, "chapter_id", chapterID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, view)
}

func (h *WorksheetHandler) GetWorksheet(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_chapter_id", err)
		return
	}
	view, err := h.worksheetService.GetWorksheet(c.Request.Context(), chapterID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, view)
}
