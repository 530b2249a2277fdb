// Package server exposes the simulation engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/tomhans2/poc-palantir/pkg/config"
	"github.com/tomhans2/poc-palantir/pkg/engine"
	"github.com/tomhans2/poc-palantir/pkg/health"
	"github.com/tomhans2/poc-palantir/pkg/logging"
	"github.com/tomhans2/poc-palantir/pkg/observer"
	"github.com/tomhans2/poc-palantir/pkg/telemetry"
)

// Config holds server configuration
type Config struct {
	// Address to listen on (e.g., ":8080")
	Address string

	// MaxRequestBodySize limits request body size
	MaxRequestBodySize int64

	// EnableCORS enables the CORS middleware for the configured origin
	EnableCORS bool
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Address:            ":8080",
		MaxRequestBodySize: 10 * 1024 * 1024, // 10MB
		EnableCORS:         true,
	}
}

// Server is the HTTP API server. It owns one engine and therefore one
// current workspace; the engine's internal mutex serializes all access.
type Server struct {
	config       Config
	engineConfig *config.Config
	httpServer   *http.Server
	engine       *engine.Engine
	health       *health.Checker
	telemetry    *telemetry.Provider
	logger       *logging.Logger
}

// New creates a new server instance
func New(serverConfig Config, engineConfig *config.Config) (*Server, error) {
	if engineConfig == nil {
		engineConfig = config.Default()
	}
	if err := engineConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	logger := logging.New(logging.DefaultConfig())

	telemetryProvider, err := telemetry.NewProvider(context.Background(), telemetry.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry provider: %w", err)
	}

	eng := engine.New(engineConfig, logger)
	eng.RegisterObserver(telemetry.NewObserver(telemetryProvider))
	eng.RegisterObserver(observer.NewLogObserver(logger))

	healthChecker := health.NewChecker("ontology-simulation-engine", "0.1.0")
	healthChecker.RegisterCheck("engine", func(ctx context.Context) error {
		return nil
	}, 5*time.Second, true)

	s := &Server{
		config:       serverConfig,
		engineConfig: engineConfig,
		engine:       eng,
		health:       healthChecker,
		telemetry:    telemetryProvider,
		logger:       logger,
	}

	router := mux.NewRouter()
	s.registerRoutes(router)

	var handler http.Handler = router
	if serverConfig.EnableCORS {
		handler = cors.New(cors.Options{
			AllowedOrigins:   []string{engineConfig.AllowedOrigin},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
		}).Handler(handler)
	}
	handler = s.loggingMiddleware(handler)
	handler = s.recoveryMiddleware(handler)

	s.httpServer = &http.Server{
		Addr:         serverConfig.Address,
		Handler:      handler,
		ReadTimeout:  engineConfig.ReadTimeout,
		WriteTimeout: engineConfig.WriteTimeout,
	}

	return s, nil
}

// Engine returns the server's engine, mainly for tests and embedding hosts
func (s *Server) Engine() *engine.Engine {
	return s.engine
}

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes(router *mux.Router) {
	// Health and metrics
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/health/live", s.health.LivenessHandler()).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", s.health.ReadinessHandler()).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Sample catalog
	router.HandleFunc("/samples", s.handleListSamples).Methods(http.MethodGet)

	// Workspace API
	api := router.PathPrefix("/api/v1/workspace").Subrouter()
	api.HandleFunc("/load", s.handleLoadWorkspace).Methods(http.MethodPost)
	api.HandleFunc("/simulate", s.handleSimulate).Methods(http.MethodPost)
	api.HandleFunc("/reset", s.handleReset).Methods(http.MethodPost)
	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/actions", s.handleAvailableActions).Methods(http.MethodGet)
}

// handleHealth serves the summary health endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.health.HTTPHandler()(w, r)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

// writeError writes an error response with a detail message
func (s *Server) writeError(w http.ResponseWriter, statusCode int, detail string) {
	s.logger.WithField("status_code", statusCode).Warn(detail)
	s.writeJSON(w, statusCode, map[string]interface{}{"detail": detail})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.WithField("address", s.config.Address).Info("starting server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server and its telemetry provider
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	if err := s.telemetry.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown telemetry: %w", err)
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		s.logger.WithFields(map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status_code": rw.statusCode,
			"duration_ms": time.Since(startTime).Milliseconds(),
			"remote_addr": r.RemoteAddr,
		}).Info("http request")
	})
}

// recoveryMiddleware recovers from panics
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.WithField("error", fmt.Sprintf("%v", err)).
					WithField("path", r.URL.Path).
					Error("panic recovered")

				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
