package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ventureforge/forge/internal/db/models"
)

// ResultRepository provides access to research result records
type ResultRepository struct {
	db *gorm.DB
}

// NewResultRepository creates a new result repository instance
func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Upsert inserts the result row for the job or replaces the existing one.
// All four payload columns are written together; a job never carries a
// partially updated result.
func (r *ResultRepository) Upsert(ctx context.Context, result *models.ResearchResult) error {
	if result.JobID == 0 {
		return fmt.Errorf("result job_id cannot be 0")
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "job_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"market_analysis",
			"solution_proposals",
			"infrastructure_blueprint",
			"success_metrics",
			"updated_at",
		}),
	}).Create(result).Error
	if err != nil {
		return fmt.Errorf("failed to upsert result for job %d: %w", result.JobID, err)
	}
	return nil
}

// GetByJobID retrieves the result for a job, verifying the job belongs to
// the given owner.
func (r *ResultRepository) GetByJobID(ctx context.Context, ownerID, jobID uint) (*models.ResearchResult, error) {
	var job models.Job
	err := r.db.WithContext(ctx).
		Where(&models.Job{Model: gorm.Model{ID: jobID}, OwnerID: ownerID}).
		First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("job not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	var result models.ResearchResult
	err = r.db.WithContext(ctx).
		Where(&models.ResearchResult{JobID: jobID}).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // No result yet for this job
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result for job %d: %w", jobID, err)
	}
	return &result, nil
}
