package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spacesedan/sentiboard/internal/sentiment"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	maxUploadBytes = 10 << 20
	maxExportBytes = 1 << 20
)

type Options struct {
	Analyzer *sentiment.Analyzer
	// MaxRows bounds the row-count selector for file uploads.
	MaxRows int
	// Healthy reflects the last health check of the remote service. Nil
	// means no monitor is running.
	Healthy  *atomic.Bool
	Gatherer prometheus.Gatherer
}

type Server struct {
	analyzer *sentiment.Analyzer
	maxRows  int
	healthy  *atomic.Bool
	gatherer prometheus.Gatherer
	tmpl     *template.Template
}

func NewServer(opts Options) (*Server, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	maxRows := opts.MaxRows
	if maxRows < 1 {
		maxRows = 1
	}

	return &Server{
		analyzer: opts.Analyzer,
		maxRows:  maxRows,
		healthy:  opts.Healthy,
		gatherer: opts.Gatherer,
		tmpl:     tmpl,
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /analyze/text", s.handleAnalyzeText)
	mux.HandleFunc("POST /analyze/file", s.handleAnalyzeFile)
	mux.HandleFunc("POST /export", s.handleExport)
	mux.HandleFunc("GET /template.csv", s.handleTemplateCSV)
	mux.HandleFunc("GET /template.xlsx", s.handleTemplateXLSX)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return logRequests(mux)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("[Web] Listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("[Web] Shutting down server gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

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
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Debug("[Web] Request handled",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("elapsed", time.Since(start)))
	})
}
