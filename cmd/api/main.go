package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-hiring-ingest/config"
	_ "go-hiring-ingest/docs" // Important for Swagger
	v1 "go-hiring-ingest/internal/delivery/http/v1"
	"go-hiring-ingest/internal/llm"
	"go-hiring-ingest/internal/repository/postgres"
	"go-hiring-ingest/internal/usecase"
	"go-hiring-ingest/pkg/database"
	"go-hiring-ingest/pkg/logger"
	"go-hiring-ingest/pkg/redis"
	"go-hiring-ingest/pkg/security"
	"go-hiring-ingest/pkg/storage"
)

// @title           Hiring Ingest API
// @version         1.0
// @description     Signed-upload gateway and document ingestion for hiring requisitions.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting hiring ingest service", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional; limiters fall back without it)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting degraded", "error", err)
	}
	defer redis.Close()

	// 5. Setup Object Storage. A broken storage config is fatal: every
	// endpoint depends on it.
	ctx := context.Background()
	store, err := storage.NewClient(ctx, cfg.Storage)
	if err != nil {
		logger.Log.Error("Failed to configure object storage", "error", err)
		os.Exit(1)
	}
	presigner, err := storage.NewPresigner(cfg.Storage)
	if err != nil {
		logger.Log.Error("Failed to configure presigner", "error", err)
		os.Exit(1)
	}

	// 6. Setup Repositories
	jobRepo := postgres.NewJobRepository(dbPool)
	fileRepo := postgres.NewFileObjectRepository(dbPool)
	attachmentStore := postgres.NewAttachmentStore(dbPool)

	// 7. Setup Field Extractor
	extractor := llm.NewClient(cfg.LLM, logger.Log)

	// 8. Setup UseCases
	uploadUC := usecase.NewUploadUsecase(jobRepo, attachmentStore, store, presigner, logger.Log)
	ingestUC := usecase.NewIngestUsecase(jobRepo, fileRepo, store, extractor, logger.Log)
	jobUC := usecase.NewJobUsecase(jobRepo)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		UploadUC:      uploadUC,
		IngestUC:      ingestUC,
		JobUC:         jobUC,
		UploadLimiter: security.NewUploadLimiter(cfg.SignRequestsPerMinute, cfg.SignRequestsPerDay),
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
