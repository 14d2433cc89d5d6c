package repos

import (
	"time"

	"github.com/ventureforge/forge/internal/db/models"
)

func (s *DBRepositoryTestSuite) TestCreateJobRequiresOwner() {
	job := &models.Job{
		Title:     "orphan job",
		JobType:   models.JobTypeValidation,
		Frequency: models.FrequencyDaily,
	}
	err := s.jobRepo.Create(s.ctx, job)
	s.Require().Error(err)
	s.Contains(err.Error(), "owner_id")
}

func (s *DBRepositoryTestSuite) TestGetByIDScopedToOwner() {
	job := s.createTestJob()

	found, err := s.jobRepo.GetByID(s.ctx, job.OwnerID, job.ID)
	s.Require().NoError(err)
	s.Equal(job.Title, found.Title)

	_, err = s.jobRepo.GetByID(s.ctx, job.OwnerID+1, job.ID)
	s.Require().Error(err)
	s.Contains(err.Error(), "job not found")
}

func (s *DBRepositoryTestSuite) TestListFiltersByStatusAndOwner() {
	ownerID := s.randomOwnerID()
	first := s.createTestJobForOwner(ownerID)
	second := s.createTestJobForOwner(ownerID)
	s.createTestJob() // different owner, must not appear

	s.Require().NoError(s.db.Model(second).UpdateColumn(models.JobStatusField, models.JobStatusCompleted).Error)

	all, err := s.jobRepo.List(s.ctx, ownerID, models.JobStatusUnknown, nil)
	s.Require().NoError(err)
	s.Len(all, 2)

	completed, err := s.jobRepo.List(s.ctx, ownerID, models.JobStatusCompleted, nil)
	s.Require().NoError(err)
	s.Require().Len(completed, 1)
	s.Equal(second.ID, completed[0].ID)

	pending, err := s.jobRepo.List(s.ctx, ownerID, models.JobStatusPending, nil)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(first.ID, pending[0].ID)
}

func (s *DBRepositoryTestSuite) TestListPagination() {
	ownerID := s.randomOwnerID()
	for i := 0; i < 5; i++ {
		s.createTestJobForOwner(ownerID)
	}

	page, err := s.jobRepo.List(s.ctx, ownerID, models.JobStatusUnknown, &models.ListOptions{Limit: 2, Offset: 2})
	s.Require().NoError(err)
	s.Len(page, 2)
}

func (s *DBRepositoryTestSuite) TestCount() {
	ownerID := s.randomOwnerID()
	s.createTestJobForOwner(ownerID)
	s.createTestJobForOwner(ownerID)

	count, err := s.jobRepo.Count(s.ctx, ownerID, models.JobStatusPending)
	s.Require().NoError(err)
	s.Equal(int64(2), count)

	count, err = s.jobRepo.Count(s.ctx, ownerID, models.JobStatusCompleted)
	s.Require().NoError(err)
	s.Equal(int64(0), count)
}

func (s *DBRepositoryTestSuite) TestClaimIsExclusive() {
	job := s.createTestJob()

	claimed, err := s.jobRepo.Claim(s.ctx, job.ID)
	s.Require().NoError(err)
	s.True(claimed, "first claim must win")

	claimed, err = s.jobRepo.Claim(s.ctx, job.ID)
	s.Require().NoError(err)
	s.False(claimed, "second claim must lose without error")

	updated, err := s.jobRepo.GetByID(s.ctx, job.OwnerID, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusRunning, updated.Status)
}

func (s *DBRepositoryTestSuite) TestClaimMissingJob() {
	claimed, err := s.jobRepo.Claim(s.ctx, 9999)
	s.Require().NoError(err)
	s.False(claimed)
}

func (s *DBRepositoryTestSuite) TestMarkTerminalRecordsOutcomeInOneWrite() {
	job := s.createTestJob()
	next := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	probability := 85

	err := s.jobRepo.MarkTerminal(s.ctx, job.ID, models.JobStatusPending, &next, &probability)
	s.Require().NoError(err)

	updated, err := s.jobRepo.GetByID(s.ctx, job.OwnerID, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusPending, updated.Status)
	s.Equal(85, updated.SuccessProbability)
	s.Require().NotNil(updated.LastRun)
	s.Require().NotNil(updated.NextRun)
	s.WithinDuration(next, *updated.NextRun, time.Second)
}

func (s *DBRepositoryTestSuite) TestMarkTerminalWithoutReschedule() {
	job := s.createTestJob()

	err := s.jobRepo.MarkTerminal(s.ctx, job.ID, models.JobStatusFailed, nil, nil)
	s.Require().NoError(err)

	updated, err := s.jobRepo.GetByID(s.ctx, job.OwnerID, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusFailed, updated.Status)
	s.Nil(updated.NextRun)
	s.NotNil(updated.LastRun)
}

func (s *DBRepositoryTestSuite) TestMarkTerminalMissingJob() {
	err := s.jobRepo.MarkTerminal(s.ctx, 9999, models.JobStatusCompleted, nil, nil)
	s.Require().Error(err)
	s.Contains(err.Error(), "not found")
}

func (s *DBRepositoryTestSuite) TestRequeueResetsTerminalJobs() {
	job := s.createTestJob()
	s.Require().NoError(s.db.Model(job).UpdateColumn(models.JobStatusField, models.JobStatusFailed).Error)

	s.Require().NoError(s.jobRepo.Requeue(s.ctx, job.ID))

	updated, err := s.jobRepo.GetByID(s.ctx, job.OwnerID, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusPending, updated.Status)
}

func (s *DBRepositoryTestSuite) TestRequeueLeavesRunningJobsAlone() {
	job := s.createTestJob()
	s.Require().NoError(s.db.Model(job).UpdateColumn(models.JobStatusField, models.JobStatusRunning).Error)

	s.Require().NoError(s.jobRepo.Requeue(s.ctx, job.ID))

	updated, err := s.jobRepo.GetByID(s.ctx, job.OwnerID, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusRunning, updated.Status)
}

// eligibleJob inserts a pending job with the given cadence fields, bypassing
// the create hooks so the test controls every timestamp.
func (s *DBRepositoryTestSuite) eligibleJob(freq models.Frequency, scheduledTime string, lastRun, nextRun *time.Time, createdAt time.Time) *models.Job {
	job := &models.Job{
		OwnerID:       s.randomOwnerID(),
		Title:         "eligibility probe",
		JobType:       models.JobTypeValidation,
		Frequency:     freq,
		Depth:         models.DepthDeep,
		ScheduledTime: scheduledTime,
		Status:        models.JobStatusPending,
		LastRun:       lastRun,
		NextRun:       nextRun,
		CreatedAt:     createdAt,
	}
	s.Require().NoError(s.jobRepo.Create(s.ctx, job))
	return job
}

func (s *DBRepositoryTestSuite) eligibleIDs(now time.Time) map[uint]bool {
	jobs, err := s.jobRepo.ListEligible(s.ctx, now)
	s.Require().NoError(err)
	ids := make(map[uint]bool, len(jobs))
	for _, job := range jobs {
		ids[job.ID] = true
	}
	return ids
}

func (s *DBRepositoryTestSuite) TestListEligibleDaily() {
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	justNow := now.Add(-time.Minute)

	due := s.eligibleJob(models.FrequencyDaily, "00:00", nil, nil, yesterday)
	ranYesterday := s.eligibleJob(models.FrequencyDaily, "00:00", &yesterday, nil, yesterday)
	notDueYet := s.eligibleJob(models.FrequencyDaily, "23:59", nil, nil, yesterday)
	ranToday := s.eligibleJob(models.FrequencyDaily, "00:00", &justNow, nil, yesterday)

	ids := s.eligibleIDs(now)
	s.True(ids[due.ID], "never-run daily job past its time must be eligible")
	s.True(ids[ranYesterday.ID], "daily job last run yesterday must be eligible")
	s.False(ids[notDueYet.ID], "daily job before its time must not be eligible")
	s.False(ids[ranToday.ID], "daily job already run today must not be eligible")
}

func (s *DBRepositoryTestSuite) TestListEligibleWeeklyAndMonthly() {
	now := time.Now()
	lastWeek := now.AddDate(0, 0, -7)
	tomorrow := now.AddDate(0, 0, 1)

	dueWeekly := s.eligibleJob(models.FrequencyWeekly, "00:00", nil, &lastWeek, lastWeek)
	unarmed := s.eligibleJob(models.FrequencyWeekly, "00:00", nil, nil, lastWeek)
	futureMonthly := s.eligibleJob(models.FrequencyMonthly, "00:00", nil, &tomorrow, lastWeek)
	dueMonthly := s.eligibleJob(models.FrequencyMonthly, "00:00", nil, &lastWeek, lastWeek)

	ids := s.eligibleIDs(now)
	s.True(ids[dueWeekly.ID], "weekly job with next_run in the past must be eligible")
	s.False(ids[unarmed.ID], "weekly job with no next_run must not be eligible")
	s.False(ids[futureMonthly.ID], "monthly job with future next_run must not be eligible")
	s.True(ids[dueMonthly.ID], "monthly job with next_run in the past must be eligible")
}

func (s *DBRepositoryTestSuite) TestListEligibleOneTime() {
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)

	due := s.eligibleJob(models.FrequencyOneTime, "00:00", nil, nil, yesterday)
	future := s.eligibleJob(models.FrequencyOneTime, "00:00", nil, nil, now.Add(time.Hour))

	ids := s.eligibleIDs(now)
	s.True(ids[due.ID], "one-time job created in the past must be eligible")
	s.False(ids[future.ID], "one-time job created in the future must not be eligible")
}

func (s *DBRepositoryTestSuite) TestListEligibleSkipsNonPendingJobs() {
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)

	claimed := s.eligibleJob(models.FrequencyDaily, "00:00", nil, nil, yesterday)
	s.Require().NoError(s.db.Model(claimed).UpdateColumn(models.JobStatusField, models.JobStatusRunning).Error)
	completed := s.eligibleJob(models.FrequencyOneTime, "00:00", nil, nil, yesterday)
	s.Require().NoError(s.db.Model(completed).UpdateColumn(models.JobStatusField, models.JobStatusCompleted).Error)

	ids := s.eligibleIDs(now)
	s.False(ids[claimed.ID], "running jobs must never be selected")
	s.False(ids[completed.ID], "completed jobs must never be selected")
}

func (s *DBRepositoryTestSuite) TestReclaimStale() {
	stuck := s.createTestJob()
	s.Require().NoError(s.db.Model(stuck).UpdateColumn(models.JobStatusField, models.JobStatusRunning).Error)
	s.Require().NoError(s.db.Model(stuck).UpdateColumn(models.JobUpdatedAtField, time.Now().Add(-2*time.Hour)).Error)

	fresh := s.createTestJob()
	s.Require().NoError(s.db.Model(fresh).UpdateColumn(models.JobStatusField, models.JobStatusRunning).Error)

	stale, err := s.jobRepo.ListStaleRunning(s.ctx, time.Hour)
	s.Require().NoError(err)
	s.Require().Len(stale, 1)
	s.Equal(stuck.ID, stale[0].ID)

	reclaimed, err := s.jobRepo.ReclaimStale(s.ctx, time.Hour)
	s.Require().NoError(err)
	s.Equal(int64(1), reclaimed)

	updated, err := s.jobRepo.GetByID(s.ctx, stuck.OwnerID, stuck.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusPending, updated.Status)

	stillRunning, err := s.jobRepo.GetByID(s.ctx, fresh.OwnerID, fresh.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusRunning, stillRunning.Status)
}

func (s *DBRepositoryTestSuite) TestStats() {
	ownerID := s.randomOwnerID()

	completed := s.createTestJobForOwner(ownerID)
	s.Require().NoError(s.db.Model(completed).UpdateColumns(map[string]interface{}{
		models.JobStatusField: models.JobStatusCompleted,
		"success_probability": 80,
	}).Error)

	rescheduled := s.createTestJobForOwner(ownerID)
	s.Require().NoError(s.db.Model(rescheduled).UpdateColumn("success_probability", 60).Error)

	failed := s.createTestJobForOwner(ownerID)
	s.Require().NoError(s.db.Model(failed).UpdateColumn(models.JobStatusField, models.JobStatusFailed).Error)

	s.createTestJob() // different owner, must not count

	stats, err := s.jobRepo.Stats(s.ctx, ownerID)
	s.Require().NoError(err)
	s.Equal(int64(3), stats.Total)
	s.Equal(int64(1), stats.Pending)
	s.Equal(int64(1), stats.Completed)
	s.Equal(int64(1), stats.Failed)
	s.Equal(int64(0), stats.Running)
	s.InDelta(70.0, stats.AvgSuccessProbability, 0.01, "jobs that never ran must not drag the average down")
}
