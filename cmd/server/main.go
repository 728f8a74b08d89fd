package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/labelscan/backend/config"
	httpDelivery "github.com/labelscan/backend/internal/delivery/http"
	"github.com/labelscan/backend/internal/domain"
	"github.com/labelscan/backend/internal/infrastructure/cache"
	"github.com/labelscan/backend/internal/infrastructure/ocr"
	"github.com/labelscan/backend/internal/logger"
	"github.com/labelscan/backend/internal/usecase"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "1.0.0"

func main() {
	// Load configuration (.env first, then config file and environment)
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Setup(cfg.LoggerConfig()); err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}

	log := logger.WithComponent("main")
	log.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("engine", cfg.OCR.Engine).
		Msg("Starting LabelScan backend")

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Server stopped")
}

func run(cfg *config.Config) error {
	log := logger.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	engine, err := ocr.New(ctx, ocr.Config{
		Engine:        cfg.OCR.Engine,
		Language:      cfg.OCR.Language,
		TesseractPath: cfg.OCR.TesseractPath,
		RateLimit:     cfg.OCR.RateLimit,
		Burst:         cfg.OCR.Burst,
		AWSRegion:     cfg.OCR.AWSRegion,
	})
	if err != nil {
		return fmt.Errorf("failed to create OCR engine: %w", err)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close OCR engine")
		}
	}()

	var reportCache domain.CacheRepository
	if cfg.Cache.Enabled {
		memoryCache := cache.NewMemoryCache(cache.DefaultSweepInterval)
		defer memoryCache.Close()
		reportCache = memoryCache
		log.Info().Str("type", cfg.Cache.Type).Dur("ttl", cfg.Cache.TTL).Msg("Report cache enabled")
	}

	// Initialize usecase layer
	analysisService := usecase.NewAnalysisService(engine, reportCache, usecase.AnalysisServiceConfig{
		Catalog:            domain.DefaultCatalog(),
		OCRTimeout:         cfg.OCR.Timeout,
		CacheTTL:           cfg.Cache.TTL,
		CacheEnabled:       cfg.Cache.Enabled,
		EnableDebugLogging: cfg.OCR.DebugText,
	})

	page, err := httpDelivery.LoadPage(cfg.Server.PagePath)
	if err != nil {
		return err
	}

	handler := httpDelivery.NewHandler(analysisService, page, version)
	router := httpDelivery.SetupRouter(cfg, handler)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", cfg.Server.ShutdownTimeout).Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
