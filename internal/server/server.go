// Package server defines the core Server struct that composes the app's main dependencies.
//
// It contains the initialization logic to spin up the HTTP server
// and handles graceful shutdowns.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the classifier loaded from the model artifact
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/crop-recommendation/internal/config"
	"github.com/deppfellow/crop-recommendation/internal/metrics"
	"github.com/deppfellow/crop-recommendation/internal/model"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/crop-recommendation/internal/logger"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself. It holds:
//   - the config
//   - the logger(s)
//   - the classifier, read-only after startup
//   - an internal *http.Server used to listen and serve requests
type Server struct {
	Config *config.Config

	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	// If New Relic is disabled, this may exist but contain nil nrApp.
	LoggerService *loggerPkg.LoggerService

	// Model is loaded once in New and never replaced, so handlers
	// share it without locking.
	Model model.Classifier

	httpServer *http.Server
}

// New constructs a Server and loads the model artifact.
//
// A missing, unreadable or invalid artifact is returned as an error; the
// caller is expected to abort startup.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	path, err := cfg.Model.ResolvePath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve model path: %w", err)
	}

	start := time.Now()
	classifier, err := model.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	info := classifier.Info()
	metrics.ModelInfo.WithLabelValues(info.Type, info.Version).Set(1)

	logger.Info().
		Str("path", path).
		Str("model_type", info.Type).
		Str("model_version", info.Version).
		Int("trees", info.Trees).
		Int("classes", len(info.Classes)).
		Dur("load_duration", time.Since(start)).
		Msg("model loaded")

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Model:         classifier,
	}, nil
}

// SetupHTTPServer configures the internal net/http server.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		// Config stores int values, interpreted here as seconds.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
//
// It requires SetupHTTPServer to be called first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server, finishing in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	return nil
}
