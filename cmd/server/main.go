package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/eduflow/campus/internal/api"
	"github.com/eduflow/campus/internal/db"
	"github.com/eduflow/campus/internal/forum"
	"github.com/eduflow/campus/internal/realtime"
	"github.com/eduflow/campus/internal/storage"
	"github.com/eduflow/campus/pkg/config"
	"github.com/eduflow/campus/pkg/logging"
	"github.com/eduflow/campus/pkg/telemetry"
)

func main() {
	// A local .env is a convenience for development; absence is fine.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Campus Forum API Server")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Database
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	repo := db.NewRepository(database.DB)
	topics := db.NewTopicRepository(repo)
	threads := db.NewThreadRepository(repo)
	comments := db.NewCommentRepository(repo)
	votes := db.NewVoteRepository(repo)
	reports := db.NewReportRepository(repo)

	// Realtime fan-out: in-process hub, bridged over Redis when
	// configured so events reach subscribers on other instances.
	hub := realtime.NewHub()
	broker, err := realtime.NewBroker(&cfg.Redis, hub)
	if err != nil {
		logger.Fatal("Failed to connect realtime broker", zap.Error(err))
	}
	defer broker.Close()

	placer := storage.NewPlacer(&cfg.Storage)
	svc := forum.NewService(topics, threads, comments, votes, reports, placer, broker, nil)

	// HTTP surface
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	server := api.NewServer(svc, hub, api.HeaderIdentity{}, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return database.Health(ctx)
	})
	router := server.Router(cfg.Storage.UploadBase, cfg.Storage.UploadRoot)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
