// Package status exposes a small operational HTTP endpoint in daemon mode:
// liveness and the latest run's report.
package status

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/gfarias-dados/pesquisa-preco/internal/pipeline"
	"github.com/gfarias-dados/pesquisa-preco/internal/scheduler"
	"github.com/gfarias-dados/pesquisa-preco/pkg/logger"
)

// ReportSource yields the latest pipeline run report, nil before any run.
type ReportSource interface {
	LatestReport() *pipeline.RunReport
}

// Server serves the status endpoints.
type Server struct {
	httpServer *http.Server
	source     ReportSource
	sched      *scheduler.Scheduler
	logger     *logger.Logger
}

// New creates the status server.
func New(port string, source ReportSource, sched *scheduler.Scheduler, log *logger.Logger) *Server {
	s := &Server{
		source: source,
		sched:  sched,
		logger: log,
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/runs/latest", s.handleLatestRun).Methods(http.MethodGet)
	router.HandleFunc("/jobs", s.handleJobs).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

// Start blocks serving HTTP until Shutdown or failure.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Status server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	report := s.source.LatestReport()
	if report == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no run yet"})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	type jobStatus struct {
		Name   string               `json:"name"`
		Latest *scheduler.JobResult `json:"latest,omitempty"`
	}

	jobs := make([]jobStatus, 0)
	for _, name := range s.sched.Jobs() {
		js := jobStatus{Name: name}
		if result, ok := s.sched.LatestResult(name); ok {
			js.Latest = &result
		}
		jobs = append(jobs, js)
	}

	writeJSON(w, http.StatusOK, jobs)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
