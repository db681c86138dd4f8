package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server keeps the finished analysis reachable after the run: probes for
// orchestration, the run metrics and the rendered PNG charts.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer wires the routes. ready turns /readyz green once an analysis has
// succeeded; chartDir is the folder the renderer wrote into.
func NewServer(addr string, ready sharedobs.ReadinessChecker, gatherer prometheus.Gatherer, chartDir string, logger *slog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           routes(ready, gatherer, chartDir),
			ReadHeaderTimeout: 5 * time.Second,
			// PNGs at high DPI run to several megabytes.
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  time.Minute,
		},
		logger: logger,
	}
}

func routes(ready sharedobs.ReadinessChecker, gatherer prometheus.Gatherer, chartDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle("GET /charts/", http.StripPrefix("/charts/", http.FileServer(http.Dir(chartDir))))
	return mux
}

// Start serves until Shutdown, then returns http.ErrServerClosed.
func (s *Server) Start() error {
	s.logger.Info("serving charts and metrics", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight downloads.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.srv.Handler.ServeHTTP(w, r)
}
