package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/ventureforge/forge/internal/db/models"
	"github.com/ventureforge/forge/internal/logger"
	"github.com/ventureforge/forge/internal/research"
)

// DefaultProviderTimeout bounds a single research provider call
const DefaultProviderTimeout = 2 * time.Minute

// Executor runs one job end to end: claim, research, persist, reschedule.
type Executor struct {
	store    Store
	provider research.Provider
	timeout  time.Duration
	now      func() time.Time
}

// NewExecutor creates an execution unit over the given store and provider.
func NewExecutor(store Store, provider research.Provider, timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &Executor{
		store:    store,
		provider: provider,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Execute drives the job through claim -> research -> persist -> terminal
// transition. A lost claim is a normal concurrency outcome and returns nil.
// The result write strictly precedes the success status transition, so a job
// never reports completed or pending without a matching result row.
func (e *Executor) Execute(ctx context.Context, job models.Job) error {
	claimed, err := e.store.Claim(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("claim job %d: %w", job.ID, err)
	}
	if !claimed {
		logger.Debugf("Job %d already claimed, skipping", job.ID)
		return nil
	}

	logger.InfoWithFields("Starting research job", map[string]interface{}{
		"job_id": job.ID,
		"title":  job.Title,
		"type":   job.JobType,
		"depth":  job.Depth,
	})

	result, err := e.research(ctx, job)
	if err != nil {
		logger.Errorf("Research failed for job %d: %v", job.ID, err)
		e.markFailed(ctx, job.ID)
		return fmt.Errorf("research job %d: %w", job.ID, err)
	}

	record := &models.ResearchResult{
		JobID:                   job.ID,
		MarketAnalysis:          result.MarketAnalysis,
		SolutionProposals:       result.SolutionProposals,
		InfrastructureBlueprint: result.InfrastructureBlueprint,
		SuccessMetrics:          result.SuccessMetrics,
	}
	if err := e.store.UpsertResult(ctx, record); err != nil {
		logger.Errorf("Failed to persist result for job %d: %v", job.ID, err)
		e.markFailed(ctx, job.ID)
		return fmt.Errorf("persist result for job %d: %w", job.ID, err)
	}

	probability := result.SuccessProbability

	if next, ok := NextRun(job.Frequency, job.ScheduledTime, e.now()); ok {
		// Recurring jobs return to pending, armed for the next occurrence.
		if err := e.store.MarkTerminal(ctx, job.ID, models.JobStatusPending, &next, &probability); err != nil {
			logger.Errorf("Job %d left running: failed to reschedule: %v", job.ID, err)
			return fmt.Errorf("reschedule job %d: %w", job.ID, err)
		}
		logger.Infof("Research completed for job %d (success: %d%%), next run %s",
			job.ID, probability, next.Format(time.RFC3339))
		return nil
	}

	if err := e.store.MarkTerminal(ctx, job.ID, models.JobStatusCompleted, nil, &probability); err != nil {
		logger.Errorf("Job %d left running: failed to record completion: %v", job.ID, err)
		return fmt.Errorf("complete job %d: %w", job.ID, err)
	}
	logger.Infof("Research completed for job %d (success: %d%%)", job.ID, probability)
	return nil
}

// research invokes the provider under the configured timeout, converting
// panics into provider failures so one job cannot take down a cycle.
func (e *Executor) research(ctx context.Context, job models.Job) (result *research.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("research provider panic: %v", r)
		}
	}()

	rctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	return e.provider.Research(rctx, research.Request{
		Title:       job.Title,
		Description: job.Description,
		JobType:     job.JobType,
		Depth:       job.Depth,
	})
}

// markFailed records the failed terminal state. If the write itself fails
// the job stays running until the stale-running watchdog reclaims it.
func (e *Executor) markFailed(ctx context.Context, jobID uint) {
	if err := e.store.MarkTerminal(ctx, jobID, models.JobStatusFailed, nil, nil); err != nil {
		logger.Errorf("Job %d left running: failed to record failure: %v", jobID, err)
	}
}
