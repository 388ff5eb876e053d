// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gfarias-dados/pesquisa-preco/internal/pipeline"
	"github.com/gfarias-dados/pesquisa-preco/pkg/config"
	"github.com/gfarias-dados/pesquisa-preco/pkg/logger"
)

// PriceSurveyJob runs the survey pipeline on schedule and keeps the latest
// run report for the status endpoint.
type PriceSurveyJob struct {
	pipeline *pipeline.Pipeline
	config   *config.Config
	logger   *logger.Logger

	mu     sync.RWMutex
	latest *pipeline.RunReport
}

// NewPriceSurveyJob creates the survey job.
func NewPriceSurveyJob(p *pipeline.Pipeline, cfg *config.Config, log *logger.Logger) *PriceSurveyJob {
	return &PriceSurveyJob{
		pipeline: p,
		config:   cfg,
		logger:   log,
	}
}

// Name returns the job name.
func (j *PriceSurveyJob) Name() string {
	return "price_survey"
}

// Schedule returns the cron schedule. Default is Monday 06:00 local time,
// after the weekend surveys have been submitted.
func (j *PriceSurveyJob) Schedule() string {
	return j.config.CronSchedule
}

// Run executes one pipeline pass with the current time as reference.
func (j *PriceSurveyJob) Run(ctx context.Context) error {
	report, err := j.pipeline.Run(ctx, time.Now())

	j.mu.Lock()
	j.latest = report
	j.mu.Unlock()

	if err != nil {
		return fmt.Errorf("price survey run: %w", err)
	}
	return nil
}

// LatestReport returns the last run's report, if a run has happened.
func (j *PriceSurveyJob) LatestReport() *pipeline.RunReport {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.latest
}
