// Package httpapi expone por HTTP el pipeline de análisis y el asesor de
// guía.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"evidence-lens/internal/core/analysis"
	"evidence-lens/internal/core/guidance"
	"evidence-lens/internal/platform/logx"
)

const (
	DefaultMaxUpload = 32 << 20
	maxJSONBody      = 1 << 20
	shutdownTimeout  = 10 * time.Second
)

// Analyzer corre el pipeline completo sobre una evidencia.
type Analyzer interface {
	Analyze(ctx context.Context, in analysis.EvidenceInput) (analysis.AnalysisReport, error)
}

// Advisor responde las consultas de guía a víctimas.
type Advisor interface {
	Guide(ctx context.Context, query string) (guidance.Guidance, error)
}

// Server guarda el router y sus dependencias, sin estado por petición.
type Server struct {
	router    *mux.Router
	analyzer  Analyzer
	advisor   Advisor
	gatherer  prometheus.Gatherer
	maxUpload int64
	tempDir   string
}

// Option configura un Server.
type Option func(*Server)

// WithGatherer expone el registry en /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithMaxUpload limita el tamaño de las peticiones multipart.
func WithMaxUpload(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// WithTempDir fija dónde se copian los archivos subidos mientras se hashean.
func WithTempDir(dir string) Option {
	return func(s *Server) { s.tempDir = dir }
}

// New construye el servidor y registra sus rutas.
func New(analyzer Analyzer, advisor Advisor, opts ...Option) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		analyzer:  analyzer,
		advisor:   advisor,
		gatherer:  prometheus.DefaultGatherer,
		maxUpload: DefaultMaxUpload,
		tempDir:   os.TempDir(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(logRequests)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/analyze", s.analyze).Methods(http.MethodPost)
	api.HandleFunc("/guidance", s.guide).Methods(http.MethodPost)

	s.router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

// Handler devuelve el handler raíz.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe sirve en addr hasta que ctx se cancela y luego drena las
// peticiones en curso.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Info("http server listening", logx.Fields{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logx.Info("http server shutting down", nil)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logx.Debug("http request", logx.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": logx.FormatDuration(time.Since(start)),
		})
	})
}
