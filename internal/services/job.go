package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ventureforge/forge/internal/db/models"
	"github.com/ventureforge/forge/internal/db/repos"
	"github.com/ventureforge/forge/internal/scheduler"
)

// CreateJobParams carries the fields a caller may set when registering a job
type CreateJobParams struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	JobType       string `json:"job_type"`
	Frequency     string `json:"frequency"`
	Depth         string `json:"depth"`
	ScheduledTime string `json:"scheduled_time"`
}

// Job handles job-related operations
type Job struct {
	repo                 *repos.JobRepository
	results              *repos.ResultRepository
	driver               *scheduler.Driver
	defaultScheduledTime string
}

// NewJobService creates a new instance of the job service
func NewJobService(repo *repos.JobRepository, results *repos.ResultRepository, driver *scheduler.Driver, defaultScheduledTime string) *Job {
	if defaultScheduledTime == "" {
		defaultScheduledTime = models.DefaultScheduledTime
	}
	return &Job{
		repo:                 repo,
		results:              results,
		driver:               driver,
		defaultScheduledTime: defaultScheduledTime,
	}
}

// Create registers a new pending research job for the owner. Weekly and
// monthly jobs are armed with next_run set to the creation instant so their
// first occurrence is not skipped.
func (s *Job) Create(ctx context.Context, ownerID uint, params CreateJobParams) (*models.Job, error) {
	jobType, err := models.ParseJobType(params.JobType)
	if err != nil {
		return nil, err
	}
	frequency, err := models.ParseFrequency(params.Frequency)
	if err != nil {
		return nil, err
	}
	depth := models.DepthDeep
	if params.Depth != "" {
		if depth, err = models.ParseDepth(params.Depth); err != nil {
			return nil, err
		}
	}
	scheduledTime := params.ScheduledTime
	if scheduledTime == "" {
		scheduledTime = s.defaultScheduledTime
	}

	job := &models.Job{
		OwnerID:       ownerID,
		Title:         params.Title,
		Description:   params.Description,
		JobType:       jobType,
		Frequency:     frequency,
		Depth:         depth,
		ScheduledTime: scheduledTime,
		Status:        models.JobStatusPending,
	}
	if frequency == models.FrequencyWeekly || frequency == models.FrequencyMonthly {
		now := time.Now()
		job.NextRun = &now
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

// Get retrieves one of the owner's jobs by ID
func (s *Job) Get(ctx context.Context, ownerID, jobID uint) (*models.Job, error) {
	return s.repo.GetByID(ctx, ownerID, jobID)
}

// List retrieves the owner's jobs with optional status filter and pagination
func (s *Job) List(ctx context.Context, ownerID uint, status models.JobStatus, opts *models.ListOptions) ([]models.Job, error) {
	return s.repo.List(ctx, ownerID, status, opts)
}

// Results retrieves the research result of one of the owner's jobs. It
// returns nil when the job has not produced a result yet.
func (s *Job) Results(ctx context.Context, ownerID, jobID uint) (*models.ResearchResult, error) {
	return s.results.GetByJobID(ctx, ownerID, jobID)
}

// Stats returns the owner's dashboard statistics
func (s *Job) Stats(ctx context.Context, ownerID uint) (*repos.JobStats, error) {
	return s.repo.Stats(ctx, ownerID)
}

// RunNow triggers an out-of-cycle run of one of the owner's jobs. The run
// goes through the same dispatcher and claim path as a cycle-selected job,
// so a job that is already running is skipped silently.
func (s *Job) RunNow(ctx context.Context, ownerID, jobID uint) error {
	job, err := s.repo.GetByID(ctx, ownerID, jobID)
	if err != nil {
		return err
	}
	if job.Status == models.JobStatusRunning {
		return fmt.Errorf("job %d is already running", jobID)
	}
	// Re-arm terminal jobs so the claim can succeed; the claim itself still
	// decides the race.
	if job.Status != models.JobStatusPending {
		if err := s.repo.Requeue(ctx, jobID); err != nil {
			return err
		}
	}
	s.driver.TriggerJob(*job)
	return nil
}
