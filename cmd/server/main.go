package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brightpath/voice-tutor/internal/api"
	"github.com/brightpath/voice-tutor/internal/config"
	"github.com/brightpath/voice-tutor/internal/observability"
	"github.com/brightpath/voice-tutor/internal/persona"
	"github.com/brightpath/voice-tutor/internal/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Use fmt for fatal errors before logger is initialized
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger := observability.GetLogger()

	logger.Info().
		Str("port", cfg.Port).
		Str("retrieval_url", cfg.RetrievalURL).
		Str("log_level", cfg.LogLevel).
		Bool("metrics_enabled", cfg.MetricsEnabled).
		Bool("barge_in_enabled", cfg.BargeInEnabled).
		Msg("Voice Tutor Service starting")

	personas := persona.NewStore(nil)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Session WebSocket endpoint
	r.Get("/ws/{sessionID}", session.Handler(cfg, personas))
	r.Get("/ws", session.Handler(cfg, personas))

	// Static catalogs for the frontend
	r.Get("/api/personas", api.PersonasHandler(personas))
	r.Get("/api/voices", api.VoicesHandler())

	// Health check endpoint
	r.Get("/health", observability.HealthCheckHandler())

	// Readiness endpoint: validate provider configuration without
	// spending API calls.
	checks := map[string]observability.HealthCheckFunc{
		"deepgram": func(ctx context.Context) (bool, error) {
			if cfg.DeepgramAPIKey == "" {
				return false, fmt.Errorf("deepgram API key not configured")
			}
			return true, nil
		},
		"openai": func(ctx context.Context) (bool, error) {
			if cfg.OpenAIAPIKey == "" {
				return false, fmt.Errorf("openai API key not configured")
			}
			return true, nil
		},
		"cartesia": func(ctx context.Context) (bool, error) {
			if cfg.CartesiaAPIKey == "" {
				return false, fmt.Errorf("cartesia API key not configured")
			}
			return true, nil
		},
		"retrieval": func(ctx context.Context) (bool, error) {
			if cfg.RetrievalURL == "" {
				return false, fmt.Errorf("retrieval URL not configured")
			}
			return true, nil
		},
	}
	r.Get("/ready", observability.ReadinessHandler(checks))

	// Metrics endpoint (Prometheus)
	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
		logger.Info().Msg("Prometheus metrics enabled at /metrics")
	}

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: WebSocket sessions are long-lived.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("endpoint", fmt.Sprintf("ws://localhost:%s/ws/{sessionID}", cfg.Port)).
			Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}
