package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/unit-converter-service/internal/domain"
	"github.com/couchcryptid/unit-converter-service/internal/observability"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker = sharedobs.ReadinessChecker

// alwaysReady backs /readyz when no background pipeline is running.
type alwaysReady struct{}

func (alwaysReady) CheckReadiness(context.Context) error { return nil }

// Server exposes the conversion API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	converter  *domain.Converter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the /v1 conversion routes and
// /healthz, /readyz, and /metrics. A nil ready checker always reports ready.
func NewServer(addr string, converter *domain.Converter, ready ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger) *Server {
	if ready == nil {
		ready = alwaysReady{}
	}
	router := httprouter.New()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      securityHeaders(requestLogging(logger, router)),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
			ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
		},
		converter: converter,
		metrics:   metrics,
		logger:    logger,
	}

	router.HandlerFunc(http.MethodGet, "/healthz", sharedobs.LivenessHandler())
	router.HandlerFunc(http.MethodGet, "/readyz", sharedobs.ReadinessHandler(ready))
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	router.Handler(http.MethodGet, "/v1/categories", s.instrument("categories", s.handleCategories))
	router.Handler(http.MethodGet, "/v1/categories/:category/units", s.instrument("units", s.handleUnits))
	router.Handler(http.MethodGet, "/v1/convert", s.instrument("convert", s.handleConvertQuery))
	router.Handler(http.MethodPost, "/v1/convert", s.instrument("convert", s.handleConvertBody))

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found", nil)
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
