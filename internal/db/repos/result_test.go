package repos

import (
	"encoding/json"

	"github.com/ventureforge/forge/internal/db/models"
)

func (s *DBRepositoryTestSuite) TestUpsertRequiresJobID() {
	err := s.resultRepo.Upsert(s.ctx, &models.ResearchResult{})
	s.Require().Error(err)
	s.Contains(err.Error(), "job_id")
}

func (s *DBRepositoryTestSuite) TestUpsertInsertsResult() {
	job := s.createTestJob()

	err := s.resultRepo.Upsert(s.ctx, &models.ResearchResult{
		JobID:          job.ID,
		MarketAnalysis: json.RawMessage(`{"tam":"2B"}`),
		SuccessMetrics: json.RawMessage(`{"success_probability":70}`),
	})
	s.Require().NoError(err)

	result, err := s.resultRepo.GetByJobID(s.ctx, job.OwnerID, job.ID)
	s.Require().NoError(err)
	s.Require().NotNil(result)
	s.JSONEq(`{"tam":"2B"}`, string(result.MarketAnalysis))
}

func (s *DBRepositoryTestSuite) TestUpsertReplacesExistingResult() {
	job := s.createTestJob()

	s.Require().NoError(s.resultRepo.Upsert(s.ctx, &models.ResearchResult{
		JobID:             job.ID,
		MarketAnalysis:    json.RawMessage(`{"run":1}`),
		SolutionProposals: json.RawMessage(`[{"title":"first"}]`),
	}))
	s.Require().NoError(s.resultRepo.Upsert(s.ctx, &models.ResearchResult{
		JobID:             job.ID,
		MarketAnalysis:    json.RawMessage(`{"run":2}`),
		SolutionProposals: json.RawMessage(`[{"title":"second"}]`),
	}))

	var count int64
	s.Require().NoError(s.db.Model(&models.ResearchResult{}).Where("job_id = ?", job.ID).Count(&count).Error)
	s.Equal(int64(1), count, "a job owns at most one result row")

	result, err := s.resultRepo.GetByJobID(s.ctx, job.OwnerID, job.ID)
	s.Require().NoError(err)
	s.Require().NotNil(result)
	s.JSONEq(`{"run":2}`, string(result.MarketAnalysis))
	s.JSONEq(`[{"title":"second"}]`, string(result.SolutionProposals))
}

func (s *DBRepositoryTestSuite) TestGetByJobIDWithoutResult() {
	job := s.createTestJob()

	result, err := s.resultRepo.GetByJobID(s.ctx, job.OwnerID, job.ID)
	s.Require().NoError(err)
	s.Nil(result, "a job that never ran has no result")
}

func (s *DBRepositoryTestSuite) TestGetByJobIDScopedToOwner() {
	job := s.createTestJob()
	s.Require().NoError(s.resultRepo.Upsert(s.ctx, &models.ResearchResult{
		JobID:          job.ID,
		MarketAnalysis: json.RawMessage(`{}`),
	}))

	_, err := s.resultRepo.GetByJobID(s.ctx, job.OwnerID+1, job.ID)
	s.Require().Error(err)
	s.Contains(err.Error(), "job not found")
}
