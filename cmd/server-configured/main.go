package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/joho/godotenv"
	"github.com/tendant/simple-headless/pkg/headless"
	"github.com/tendant/simple-headless/pkg/headless/api"
	"github.com/tendant/simple-headless/pkg/headless/config"
)

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	serverConfig, err := config.Load(config.WithEnv(os.Getenv("HEADLESS_ENV_PREFIX")))
	if err != nil {
		slog.Error("Failed to load server configuration", "err", err)
		os.Exit(1)
	}

	svc, err := serverConfig.BuildService()
	if err != nil {
		slog.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	server := NewHTTPServer(svc, serverConfig)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: server.Routes(),
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Headless server starting",
			"port", serverConfig.Port,
			"environment", serverConfig.Environment,
			"database", serverConfig.DatabaseType,
			"locales", serverConfig.Locales,
			"route_prefix", serverConfig.RoutePrefix)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "err", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}

// HTTPServer wraps the headless service for HTTP access
type HTTPServer struct {
	service headless.Service
	config  *config.ServerConfig
	logger  *slog.Logger
}

// NewHTTPServer creates a new HTTP server wrapper
func NewHTTPServer(service headless.Service, serverConfig *config.ServerConfig) *HTTPServer {
	return &HTTPServer{
		service: service,
		config:  serverConfig,
		logger:  slog.Default(),
	}
}

// Routes sets up the HTTP routes
func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(api.RequestIDMiddleware)
	r.Use(api.LoggingMiddleware(s.logger))
	r.Use(api.RecoveryMiddleware)
	r.Use(middleware.Timeout(60 * time.Second))
	// CORS for configured origins, or any origin in development
	if len(s.config.CORSOrigins) > 0 || s.config.Environment == "development" {
		r.Use(api.CORSMiddleware(s.config.CORSOrigins))
	}
	if s.config.RateLimit > 0 {
		r.Use(api.RateLimitMiddleware(s.config.RateLimit))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/config", s.handleGetConfig)

	r.Mount(s.config.RoutePrefix, api.NewHandler(s.service).Routes())

	return r
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, http.StatusText(http.StatusOK))
}

// Configuration info endpoint
func (s *HTTPServer) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"environment":            s.config.Environment,
		"database_type":          s.config.DatabaseType,
		"route_prefix":           s.config.RoutePrefix,
		"locales":                s.config.Locales,
		"enable_fields":          s.config.EnableFields,
		"enable_search":          s.config.EnableSearch,
		"media":                  s.config.MediaURL != "",
		"post_excluded_types":    s.config.PostExcludedTypes,
		"archive_excluded_types": s.config.ArchiveExcludedTypes,
	})
}
