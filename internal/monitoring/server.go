// internal/monitoring/server.go
package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evscout/evscout/internal/utils"
)

// ProgressSnapshot is the /progress payload.
type ProgressSnapshot struct {
	CompletedSources int       `json:"completed_sources"`
	TotalSources     int       `json:"total_sources"`
	Records          int       `json:"records"`
	CurrentSource    string    `json:"current_source,omitempty"`
	StartedAt        time.Time `json:"started_at"`
}

// Server exposes metrics and probes for one scraping run.
type Server struct {
	srv    *http.Server
	logger utils.Logger
}

// NewServer builds the HTTP server. progress may be nil, in which case
// /progress serves an empty snapshot.
func NewServer(addr string, m *Metrics, progress func() ProgressSnapshot, logger utils.Logger) *Server {
	if logger == nil {
		logger = utils.NewLogger()
	}
	startTime := time.Now()

	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/healthz", HealthHandler(startTime)).Methods(http.MethodGet)
	r.HandleFunc("/progress", func(w http.ResponseWriter, req *http.Request) {
		var snap ProgressSnapshot
		if progress != nil {
			snap = progress()
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snap)
	}).Methods(http.MethodGet)

	return &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start serves in the background. Errors other than a clean shutdown
// are logged, not returned; a dead metrics port must not kill a run.
func (s *Server) Start() {
	s.logger.Infof("monitoring server listening on %s", s.srv.Addr)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Errorf("monitoring server: %v", err)
		}
	}()
}

// Shutdown drains the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
