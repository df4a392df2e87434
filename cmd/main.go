package main

import (
	"fmt"
	"os"

	"github.com/yungbote/edusummarize-backend/internal/data/db"
	"github.com/yungbote/edusummarize-backend/internal/data/repos"
	httpserver "github.com/yungbote/edusummarize-backend/internal/http"
	"github.com/yungbote/edusummarize-backend/internal/http/handlers"
	"github.com/yungbote/edusummarize-backend/internal/ingestion"
	"github.com/yungbote/edusummarize-backend/internal/platform/gcp"
	"github.com/yungbote/edusummarize-backend/internal/platform/genai"
	"github.com/yungbote/edusummarize-backend/internal/platform/logger"
	"github.com/yungbote/edusummarize-backend/internal/render"
	"github.com/yungbote/edusummarize-backend/internal/services"
	"github.com/yungbote/edusummarize-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Database
	dbService, err := db.NewService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err := db.AutoMigrateAll(dbService.DB()); err != nil {
		log.Error("Auto migration failed", "error", err)
		os.Exit(1)
	}
	theDB := dbService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	bookRepo := repos.NewBookRepo(theDB, log)
	chapterRepo := repos.NewChapterRepo(theDB, log)
	summaryRepo := repos.NewSummaryRepo(theDB, log)
	conceptRepo := repos.NewConceptRepo(theDB, log)
	progressRepo := repos.NewUserProgressRepo(theDB, log)
	worksheetRepo := repos.NewWorksheetRepo(theDB, log)

	// Platform clients
	log.Info("Setting up platform clients from main...")
	genaiClient, err := genai.NewClient(log)
	if err != nil {
		log.Error("Could not init generation client", "error", err)
		os.Exit(1)
	}
	docClient, err := gcp.NewDocument(log)
	if err != nil {
		log.Warn("Document AI unavailable, pdf extraction only", "error", err)
		docClient = nil
	}

	// Worksheet artifacts
	renderer, err := render.NewRenderer(log)
	if err != nil {
		log.Warn("Worksheet rendering disabled", "error", err)
		renderer = nil
	}
	var artifacts services.ArtifactStore
	if bucket, err := gcp.NewBucket(log); err == nil {
		artifacts = services.NewGCSArtifactStore(bucket, log)
	} else {
		log.Warn("Bucket unavailable, storing artifacts locally", "error", err)
		if artifacts, err = services.NewLocalArtifactStore(log); err != nil {
			log.Warn("Local artifact store unavailable", "error", err)
			artifacts = nil
		}
	}

	// Services
	log.Info("Setting up services from main...")
	segmenter := ingestion.NewSegmenter(log)
	summarizerService := services.NewSummarizerService(genaiClient, log)
	bookService := services.NewBookService(log, segmenter, bookRepo, chapterRepo)
	sessionService := services.NewLearningSessionService(log, summarizerService, chapterRepo, summaryRepo, conceptRepo, progressRepo)
	worksheetService := services.NewWorksheetService(log, genaiClient, renderer, artifacts, chapterRepo, summaryRepo, conceptRepo, worksheetRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	healthHandler := handlers.NewHealthHandler()
	bookHandler := handlers.NewBookHandler(log, bookService, docClient)
	sessionHandler := handlers.NewSessionHandler(log, sessionService)
	worksheetHandler := handlers.NewWorksheetHandler(log, worksheetService)

	// Router
	log.Info("Setting up router from main...")
	server := httpserver.NewServer(httpserver.RouterConfig{
		Log:              log,
		BookHandler:      bookHandler,
		SessionHandler:   sessionHandler,
		WorksheetHandler: worksheetHandler,
		HealthHandler:    healthHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := server.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
