package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"thunder-recargas/internal/handlers"
	"thunder-recargas/internal/metrics"
)

// Server wraps an http.Server with the API routes and shared middleware.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// New creates the HTTP server listening on addr.
func New(addr string, api *handlers.Handler, logger *slog.Logger, m *metrics.Metrics) *Server {
	server := &Server{
		logger:  logger.With("component", "http"),
		metrics: m,
	}

	mux := http.NewServeMux()
	api.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	server.httpServer = &http.Server{
		Addr:              addr,
		Handler:           server.middleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return server
}

// Start begins listening for incoming HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server listen: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}

// statusRecorder captures the response code for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// middleware adds panic recovery, request logging and metrics around every
// route. A panicking handler answers 500 and never takes the process down.
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("handler panicked", "path", r.URL.Path, "panic", err)
				if s.metrics != nil {
					s.metrics.Errors.WithLabelValues("http").Inc()
				}
				http.Error(rec, `{"message":"Erro interno do servidor."}`, http.StatusInternalServerError)
			}

			route := r.Method + " " + r.URL.Path
			if s.metrics != nil {
				s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
				s.metrics.HTTPLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
			}
			s.logger.Debug("request handled", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
		}()

		next.ServeHTTP(rec, r)
	})
}
