package status

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfarias-dados/pesquisa-preco/internal/pipeline"
	"github.com/gfarias-dados/pesquisa-preco/internal/scheduler"
	"github.com/gfarias-dados/pesquisa-preco/pkg/logger"
)

type stubSource struct {
	report *pipeline.RunReport
}

func (s *stubSource) LatestReport() *pipeline.RunReport {
	return s.report
}

func newTestServer(t *testing.T, source ReportSource) *Server {
	t.Helper()
	log := logger.NewWriter(io.Discard, "error")
	sched := scheduler.New(log, time.UTC)
	return New("0", source, sched, log)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &stubSource{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestLatestRunBeforeFirstRun(t *testing.T) {
	srv := newTestServer(t, &stubSource{})

	req := httptest.NewRequest(http.MethodGet, "/runs/latest", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLatestRunReturnsReport(t *testing.T) {
	report := &pipeline.RunReport{
		WindowStart: "2025-03-01",
		WindowEnd:   "2025-03-03",
		PriceRows:   12,
		EmailSent:   true,
	}
	srv := newTestServer(t, &stubSource{report: report})

	req := httptest.NewRequest(http.MethodGet, "/runs/latest", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got pipeline.RunReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "2025-03-01", got.WindowStart)
	assert.Equal(t, 12, got.PriceRows)
	assert.True(t, got.EmailSent)
}

func TestJobsEmpty(t *testing.T) {
	srv := newTestServer(t, &stubSource{})

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var jobs []json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	assert.Empty(t, jobs)
}
