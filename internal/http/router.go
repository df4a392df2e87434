package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/edusummarize-backend/internal/http/handlers"
	httpMW "github.com/yungbote/edusummarize-backend/internal/http/middleware"
	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	BookHandler      *httpH.BookHandler
	SessionHandler   *httpH.SessionHandler
	WorksheetHandler *httpH.WorksheetHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Books
		if cfg.BookHandler != nil {
			api.POST("/books", cfg.BookHandler.IngestBook)
			api.GET("/books", cfg.BookHandler.ListBooks)
			api.GET("/books/:id", cfg.BookHandler.GetBook)
			api.DELETE("/books/:id", cfg.BookHandler.DeleteBook)
			api.GET("/books/:id/chapters", cfg.BookHandler.GetChapters)
		}

		// Learning sessions and progress
		if cfg.SessionHandler != nil {
			api.POST("/chapters/:id/session", cfg.SessionHandler.StartSession)
			api.GET("/chapters/:id/progress", cfg.SessionHandler.GetChapterProgress)
			api.POST("/chapters/:id/reset", cfg.SessionHandler.ResetChapterProgress)
			api.GET("/books/:id/progress", cfg.SessionHandler.GetBookProgress)
			api.POST("/concepts/:id/understanding", cfg.SessionHandler.ProcessUnderstanding)
		}

		// Worksheets
		if cfg.WorksheetHandler != nil {
			api.POST("/chapters/:id/worksheet", cfg.WorksheetHandler.GenerateWorksheet)
			api.GET("/chapters/:id/worksheet", cfg.WorksheetHandler.GetWorksheet)
		}
	}

	return r
}
