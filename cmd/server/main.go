// Package main is the entrypoint for the PLC diagnostic API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlyonaCIA/AI-diagnostic/internal/ai"
	"github.com/AlyonaCIA/AI-diagnostic/internal/api"
	"github.com/AlyonaCIA/AI-diagnostic/internal/api/handler"
	mw "github.com/AlyonaCIA/AI-diagnostic/internal/api/middleware"
	"github.com/AlyonaCIA/AI-diagnostic/internal/config"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "ai_provider", cfg.AI.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Create AI provider
	aiProvider, err := ai.NewProvider(cfg.AI)
	if err != nil {
		return fmt.Errorf("create AI provider: %w", err)
	}
	slog.Info("AI provider initialized", "provider", aiProvider.Name())

	// 3. Build the diagnosis pipeline
	diagSvc := ai.NewDiagnosisService(aiProvider, cfg.AI.InferenceTimeout)

	// 4. Build router with dependencies
	auth := mw.NewAuth(cfg.Server.APIKeyHash)
	if !auth.Enabled() {
		slog.Warn("API key authentication disabled")
	}

	deps := api.Dependencies{
		Auth: auth,

		HealthHandler:         handler.NewHealthHandler(),
		DetailedHealthHandler: handler.NewDetailedHealthHandler(aiProvider),
		DiagnoseHandler:       handler.NewDiagnoseHandler(diagSvc),
	}

	router := api.NewRouter(deps)

	// 5. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AI.InferenceTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
