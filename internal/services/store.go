// Package services contains the application services between the HTTP layer
// and the repositories, and the store adapter the scheduler runs against.
package services

import (
	"context"
	"time"

	"github.com/ventureforge/forge/internal/db/models"
	"github.com/ventureforge/forge/internal/db/repos"
	"github.com/ventureforge/forge/internal/scheduler"
)

// SchedulerStore binds the job and result repositories to the scheduler's
// Store interface.
type SchedulerStore struct {
	jobs    *repos.JobRepository
	results *repos.ResultRepository
}

var _ scheduler.Store = &SchedulerStore{}

// NewSchedulerStore creates the store adapter used by the scheduling engine.
func NewSchedulerStore(jobs *repos.JobRepository, results *repos.ResultRepository) *SchedulerStore {
	return &SchedulerStore{jobs: jobs, results: results}
}

// ListEligible implements scheduler.Store
func (s *SchedulerStore) ListEligible(ctx context.Context, now time.Time) ([]models.Job, error) {
	return s.jobs.ListEligible(ctx, now)
}

// Claim implements scheduler.Store
func (s *SchedulerStore) Claim(ctx context.Context, jobID uint) (bool, error) {
	return s.jobs.Claim(ctx, jobID)
}

// MarkTerminal implements scheduler.Store
func (s *SchedulerStore) MarkTerminal(ctx context.Context, jobID uint, status models.JobStatus, nextRun *time.Time, successProbability *int) error {
	return s.jobs.MarkTerminal(ctx, jobID, status, nextRun, successProbability)
}

// UpsertResult implements scheduler.Store
func (s *SchedulerStore) UpsertResult(ctx context.Context, result *models.ResearchResult) error {
	return s.results.Upsert(ctx, result)
}
