// Package repos provides repository access to job, result and user records.
package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ventureforge/forge/internal/db/models"
)

// dailyRerunGuard is how far in the past a daily job's last run must be
// before the job becomes eligible again within the same calendar day.
const dailyRerunGuard = 23 * time.Hour

// JobRepository provides access to job-related database operations
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository instance
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create creates a new job in the database
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	if job.OwnerID == 0 {
		return fmt.Errorf("job owner_id cannot be 0")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// GetByID retrieves a job by its ID, scoped to the given owner
func (r *JobRepository) GetByID(ctx context.Context, ownerID, id uint) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).
		Where(&models.Job{Model: gorm.Model{ID: id}, OwnerID: ownerID}).
		First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("job not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// List returns the owner's jobs, newest first.
// If status is unknown, jobs are returned regardless of their status.
func (r *JobRepository) List(ctx context.Context, ownerID uint, status models.JobStatus, opts *models.ListOptions) ([]models.Job, error) {
	var jobs []models.Job
	qry := &models.Job{OwnerID: ownerID}
	if status != models.JobStatusUnknown && status != "" {
		qry.Status = status
	}

	limit := models.DefaultListLimit
	offset := 0
	if opts != nil {
		if opts.Limit > 0 {
			limit = opts.Limit
		}
		offset = opts.Offset
	}

	err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where(qry).
		Limit(limit).Offset(offset).
		Order(models.JobCreatedAtField + " DESC").
		Find(&jobs).Error
	return jobs, err
}

// Count returns the number of the owner's jobs with the given status.
// If status is unknown, all of the owner's jobs are counted.
func (r *JobRepository) Count(ctx context.Context, ownerID uint, status models.JobStatus) (int64, error) {
	var count int64
	qry := &models.Job{OwnerID: ownerID}
	if status != models.JobStatusUnknown && status != "" {
		qry.Status = status
	}
	err := r.db.WithContext(ctx).Model(&models.Job{}).Where(qry).Count(&count).Error
	return count, err
}

// ListEligible returns the pending jobs whose cadence predicate is satisfied
// at the given instant and which have not already run in their current
// period.
//
// This is a read-only snapshot across all owners; it provides no exclusion.
// Claim is the only barrier against double execution.
func (r *JobRepository) ListEligible(ctx context.Context, now time.Time) ([]models.Job, error) {
	var jobs []models.Job

	currentTime := now.Format("15:04")
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dailyCutoff := now.Add(-dailyRerunGuard)

	cadence := r.db.
		Where("frequency = ? AND scheduled_time <= ?", models.FrequencyDaily, currentTime).
		Or("frequency IN ? AND next_run IS NOT NULL AND next_run <= ? AND scheduled_time <= ?",
			[]models.Frequency{models.FrequencyWeekly, models.FrequencyMonthly}, now, currentTime).
		Or("frequency = ? AND created_at <= ?", models.FrequencyOneTime, now)

	periodGuard := r.db.
		Where("last_run IS NULL").
		Or("last_run < ?", startOfDay).
		Or("frequency = ? AND last_run < ?", models.FrequencyDaily, dailyCutoff)

	err := r.db.WithContext(ctx).
		Where(&models.Job{Status: models.JobStatusPending}).
		Where(cadence).
		Where(periodGuard).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible jobs: %w", err)
	}
	return jobs, nil
}

// Claim attempts to transition the job from pending to running. It returns
// false when another executor already owns the job.
//
// The conditional update is the sole mutual-exclusion barrier against double
// execution; the store itself is the lock.
func (r *JobRepository) Claim(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ? AND status = ?", id, models.JobStatusPending).
		Update(models.JobStatusField, models.JobStatusRunning)
	if res.Error != nil {
		return false, fmt.Errorf("failed to claim job %d: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// MarkTerminal records the job's per-cycle outcome in a single write: the
// new status, last_run, and optionally the next occurrence and success
// probability.
func (r *JobRepository) MarkTerminal(ctx context.Context, id uint, status models.JobStatus, nextRun *time.Time, successProbability *int) error {
	updates := map[string]interface{}{
		models.JobStatusField: status,
		"last_run":            time.Now(),
	}
	if nextRun != nil {
		updates["next_run"] = *nextRun
	}
	if successProbability != nil {
		updates["success_probability"] = *successProbability
	}

	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to mark job %d %s: %w", id, status, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to mark job %d %s: job not found", id, status)
	}
	return nil
}

// Requeue resets a terminal job back to pending so an ad-hoc run can claim
// it. Running jobs are left alone.
func (r *JobRepository) Requeue(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ? AND status IN ?", id,
			[]models.JobStatus{models.JobStatusCompleted, models.JobStatusFailed}).
		Update(models.JobStatusField, models.JobStatusPending)
	if res.Error != nil {
		return fmt.Errorf("failed to requeue job %d: %w", id, res.Error)
	}
	return nil
}

// ListStaleRunning returns jobs that have been running for longer than the
// given threshold. These are jobs whose executor could not write a terminal
// state; the scheduler never selects them again on its own.
func (r *JobRepository) ListStaleRunning(ctx context.Context, threshold time.Duration) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).
		Where("status = ? AND "+models.JobUpdatedAtField+" < ?",
			models.JobStatusRunning, time.Now().Add(-threshold)).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stale running jobs: %w", err)
	}
	return jobs, nil
}

// ReclaimStale resets jobs stuck in running for longer than the threshold
// back to pending and returns how many were reclaimed.
func (r *JobRepository) ReclaimStale(ctx context.Context, threshold time.Duration) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("status = ? AND "+models.JobUpdatedAtField+" < ?",
			models.JobStatusRunning, time.Now().Add(-threshold)).
		Update(models.JobStatusField, models.JobStatusPending)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to reclaim stale jobs: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// JobStats summarizes an owner's jobs for the dashboard
type JobStats struct {
	Total                 int64   `json:"total"`
	Pending               int64   `json:"pending"`
	Running               int64   `json:"running"`
	Completed             int64   `json:"completed"`
	Failed                int64   `json:"failed"`
	AvgSuccessProbability float64 `json:"avg_success_probability"`
}

// Stats returns per-status counts and the average success probability of the
// owner's executed jobs.
func (r *JobRepository) Stats(ctx context.Context, ownerID uint) (*JobStats, error) {
	var stats JobStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending,
			COUNT(CASE WHEN status = 'running' THEN 1 END) AS running,
			COUNT(CASE WHEN status = 'completed' THEN 1 END) AS completed,
			COUNT(CASE WHEN status = 'failed' THEN 1 END) AS failed,
			COALESCE(AVG(CASE WHEN success_probability > 0 THEN success_probability END), 0) AS avg_success_probability
		FROM jobs
		WHERE owner_id = ? AND deleted_at IS NULL`, ownerID).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute job stats: %w", err)
	}
	return &stats, nil
}
