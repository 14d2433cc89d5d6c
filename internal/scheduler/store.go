package scheduler

import (
	"context"
	"time"

	"github.com/ventureforge/forge/internal/db/models"
)

// Store is the persistence boundary the engine runs against. All cross-job
// coordination goes through it; Claim is the only mutual-exclusion primitive
// and must be atomic against the backing store.
type Store interface {
	// ListEligible returns a read-only snapshot of the pending jobs whose
	// cadence predicate is satisfied at now.
	ListEligible(ctx context.Context, now time.Time) ([]models.Job, error)

	// Claim atomically transitions a job from pending to running. It returns
	// false, without error, when the job was already claimed.
	Claim(ctx context.Context, jobID uint) (bool, error)

	// MarkTerminal records the job's per-cycle outcome in one write: status,
	// last_run, and optionally next_run and success_probability.
	MarkTerminal(ctx context.Context, jobID uint, status models.JobStatus, nextRun *time.Time, successProbability *int) error

	// UpsertResult replaces or inserts the job's research result.
	UpsertResult(ctx context.Context, result *models.ResearchResult) error
}
