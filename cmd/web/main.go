package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"items-finder/internal/config"
	"items-finder/internal/middleware"
	"items-finder/internal/observability"
	"items-finder/internal/server"
	"items-finder/internal/services"
)

const seedLoadTimeout = 30 * time.Second

func newHandler(cfg *config.Config, workspace *services.Workspace, logger *slog.Logger) http.Handler {
	srv := server.NewServer(workspace, logger, cfg.Upload.MaxBytes)
	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	return middlewareChain(srv)
}

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		slog.Error("failed to load .env file", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"addr", cfg.Address(),
		"pareto_threshold", cfg.Pipeline.ParetoThreshold.String(),
		"upload_max_bytes", cfg.Upload.MaxBytes,
	)

	workspace := services.NewWorkspace(cfg.Pipeline.ParetoThreshold, logger)

	if cfg.Pipeline.SeedFile != "" {
		ctx, cancel := context.WithTimeout(context.Background(), seedLoadTimeout)
		start := time.Now()
		err := workspace.LoadFile(ctx, cfg.Pipeline.SeedFile)
		cancel()
		if err != nil {
			logger.Error("failed to load seed workbook", "file", cfg.Pipeline.SeedFile, "error", err)
			os.Exit(1)
		}
		logger.Info("seed workbook loaded", "file", cfg.Pipeline.SeedFile, "duration", time.Since(start))
	}

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, workspace, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down workspace", "stats", workspace.Stats())
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
