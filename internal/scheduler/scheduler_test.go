package scheduler

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfarias-dados/pesquisa-preco/pkg/logger"
)

type testJob struct {
	name     string
	schedule string
	runs     atomic.Int32
	err      error
}

func (j *testJob) Name() string     { return j.name }
func (j *testJob) Schedule() string { return j.schedule }

func (j *testJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func newScheduler(t *testing.T) *Scheduler {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return New(logger.NewWriter(io.Discard, "error"), loc)
}

func TestAddJob(t *testing.T) {
	s := newScheduler(t)
	job := &testJob{name: "price_survey", schedule: "0 0 6 * * 1"}

	require.NoError(t, s.AddJob(job))
	assert.Equal(t, []string{"price_survey"}, s.Jobs())

	err := s.AddJob(job)
	assert.Error(t, err, "duplicate job names rejected")
}

func TestAddJobBadSchedule(t *testing.T) {
	s := newScheduler(t)
	job := &testJob{name: "broken", schedule: "not a cron"}

	assert.Error(t, s.AddJob(job))
}

func TestRunJobRecordsHistory(t *testing.T) {
	s := newScheduler(t)
	job := &testJob{name: "price_survey", schedule: "0 0 6 * * 1"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("price_survey"))

	// RunJob executes asynchronously.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if result, ok := s.LatestResult("price_survey"); ok {
			assert.True(t, result.Success)
			assert.Equal(t, "price_survey", result.JobName)
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("job result not recorded in time")
		}
		time.Sleep(10 * time.Millisecond)
	}

	assert.Equal(t, int32(1), job.runs.Load())
}

func TestRunJobFailureRecorded(t *testing.T) {
	s := newScheduler(t)
	job := &testJob{name: "failing", schedule: "0 0 6 * * 1", err: fmt.Errorf("boom")}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("failing"))

	deadline := time.Now().Add(2 * time.Second)
	for {
		if result, ok := s.LatestResult("failing"); ok {
			assert.False(t, result.Success)
			assert.Contains(t, result.Error, "boom")
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("job result not recorded in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRunJobUnknown(t *testing.T) {
	s := newScheduler(t)
	assert.Error(t, s.RunJob("ghost"))
}

func TestJobHistoryCap(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 150; i++ {
		h.AddResult(JobResult{JobName: "j", Success: i%2 == 0})
	}

	assert.Len(t, h.Results, 100)

	latest, ok := h.Latest()
	require.True(t, ok)
	assert.Equal(t, "j", latest.JobName)
}
