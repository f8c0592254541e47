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

	"go.uber.org/zap"

	"github.com/kailas-cloud/platefinder/internal/app"
	"github.com/kailas-cloud/platefinder/internal/config"
	logpkg "github.com/kailas-cloud/platefinder/internal/logger"
	"github.com/kailas-cloud/platefinder/internal/metrics"
	chiTransport "github.com/kailas-cloud/platefinder/internal/transport/chi"
	"github.com/kailas-cloud/platefinder/internal/upload"
	healthuc "github.com/kailas-cloud/platefinder/internal/usecase/health"
	searchuc "github.com/kailas-cloud/platefinder/internal/usecase/search"
	"github.com/kailas-cloud/platefinder/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting platefinder API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	ctx := context.Background()
	storage, err := app.OpenStorage(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer storage.Close()

	// Register metrics explicitly (no init())
	metrics.RegisterClassifierMetrics()
	metrics.RegisterSearchMetrics()

	// Pass nil interfaces (not typed nil pointers) when image search is off.
	var classifier searchuc.Classifier
	var classifierChecker healthuc.ClassifierChecker
	if c := app.NewClassifier(cfg.Classifier, logger); c != nil {
		classifier = c
		classifierChecker = c
		logger.Info("Image classifier enabled", zap.String("model", cfg.Classifier.Model))
	} else {
		logger.Warn("classifier.api_key is empty, image search is disabled")
	}

	searchSvc := searchuc.New(storage.Source, classifier, searchuc.Config{
		CuisinePageSize:      cfg.Search.CuisinePageSize,
		ImagePageSize:        cfg.Search.ImagePageSize,
		MaxPageSize:          cfg.Search.MaxPageSize,
		DefaultMaxDistanceKm: cfg.Search.DefaultMaxDistanceKm,
	})
	healthSvc := healthuc.New(storage.Pinger, classifierChecker)
	spooler := upload.NewSpooler(upload.Config{
		Dir:      cfg.Upload.Dir,
		MaxBytes: cfg.Upload.MaxBytes,
	})

	server := chiTransport.NewServer(searchSvc, healthSvc, spooler, logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		RequestTimeout: time.Duration(cfg.HTTP.RequestTimeoutSec) * time.Second,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
