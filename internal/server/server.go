// Package server exposes the describe flows, telemetry and saved audio over
// HTTP.
//
// Endpoints:
//   - GET  /health
//   - GET  /api/models
//   - GET  /api/telemetry?modelName=&modelType=
//   - GET  /api/telemetry/hourly?hours=
//   - POST /api/describe, /api/url-describe, /api/ocr-describe
//   - POST /api/describe-preview, /api/url-describe-preview, /api/ocr-describe-preview
//   - GET  /api/saved-audio, POST /api/saved-audio, GET /api/saved-audio/{id}
//   - GET  /metrics
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/j-veylop/uranus/internal/audio"
	"github.com/j-veylop/uranus/internal/inference"
	"github.com/j-veylop/uranus/internal/logger"
	"github.com/j-veylop/uranus/internal/models"
	"github.com/j-veylop/uranus/internal/telemetry"
)

const (
	// maxBodyBytes bounds JSON request bodies; base64 audio and images are large.
	maxBodyBytes = 30 << 20

	shutdownTimeout = 5 * time.Second
)

// TelemetryStore records outcomes and serves snapshots.
type TelemetryStore interface {
	Record(ctx context.Context, input models.InputDescriptor, outcome models.InferenceOutcome) (models.TelemetryRecord, error)
	Snapshot(f telemetry.Filter) models.Snapshot
}

// HourlySource serves time-bucketed statistics.
type HourlySource interface {
	GetHourlyStats(hours int) ([]models.HourlyStats, error)
}

// ModelSource lists the configured models.
type ModelSource interface {
	All() []models.ModelDescriptor
	IDs() []string
}

// Deps are the collaborators of the server. Hourly, Metrics and StaticDir
// are optional.
type Deps struct {
	// CheckProvider reports a missing model provider configuration.
	CheckProvider func() error
	Models        ModelSource
	Runner        *inference.Runner
	OCR           inference.OCR
	Telemetry     TelemetryStore
	Audio         *audio.Store
	Hourly        HourlySource
	Metrics       http.Handler
	StaticDir     string
}

// Server is the HTTP API server.
type Server struct {
	deps    Deps
	addr    string
	handler http.Handler
	server  *http.Server
	now     func() time.Time
}

// New creates a server listening on addr.
func New(addr string, deps Deps) *Server {
	if deps.CheckProvider == nil {
		deps.CheckProvider = func() error { return nil }
	}
	s := &Server{deps: deps, addr: addr, now: time.Now}
	s.handler = logRequests(s.routes())
	return s
}

// Handler returns the root handler, including request logging.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/models", s.handleModels)
	mux.HandleFunc("GET /api/telemetry", s.handleTelemetry)
	mux.HandleFunc("GET /api/telemetry/hourly", s.handleHourly)

	mux.HandleFunc("POST /api/describe", s.handleDescribe)
	mux.HandleFunc("POST /api/url-describe", s.handleURLDescribe)
	mux.HandleFunc("POST /api/ocr-describe", s.handleOCRDescribe)

	mux.HandleFunc("POST /api/describe-preview", s.handleDescribePreview)
	mux.HandleFunc("POST /api/url-describe-preview", s.handleURLDescribePreview)
	mux.HandleFunc("POST /api/ocr-describe-preview", s.handleOCRDescribePreview)

	mux.HandleFunc("GET /api/saved-audio", s.handleListAudio)
	mux.HandleFunc("POST /api/saved-audio", s.handleSaveAudio)
	mux.HandleFunc("GET /api/saved-audio/{id}", s.handleGetAudio)

	if s.deps.Metrics != nil {
		mux.Handle("GET /metrics", s.deps.Metrics)
	}

	if dir := s.deps.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			mux.Handle("GET /", http.FileServer(http.Dir(dir)))
		} else {
			logger.Debug("static directory not found, skipping", "dir", dir)
		}
	}

	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(started).Milliseconds(),
		)
	})
}
