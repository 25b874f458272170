package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Junction-25/pdf-service/internal/app"
	"github.com/Junction-25/pdf-service/internal/config"
	"github.com/Junction-25/pdf-service/internal/handler"
	"github.com/Junction-25/pdf-service/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
	shutdownTimeout  = 15 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = log.Sync() }()
	cfg.LogWarnings(log)

	log.Info("Dar.ai PDF service starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()

	source := handler.RecordSource{Name: cfg.Data.Source}
	if application.Database != nil {
		source.DB = application.Database
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	router := handler.NewRouter(handler.Handlers{
		Documents: handler.NewDocumentHandler(application.Pipeline, time.Duration(cfg.Server.RequestTimeout)*time.Second),
		Records:   handler.NewRecordsHandler(application.Records, defaultListLimit, maxListLimit),
		Health: handler.NewHealthHandler(
			handler.BuildInfo{Version: Version, BuildTime: BuildTime, GitCommit: GitCommit},
			application.Reasoner,
			application.Records,
			source,
		),
	}, log.Named("http"), cfg.Server.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("addr", addr), zap.String("api", fmt.Sprintf("http://localhost:%d/api/v1", cfg.Server.Port)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
		return
	}
	log.Info("Server stopped")
}
