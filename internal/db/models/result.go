package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// ResearchResult holds the structured output of a job's most recent
// successful execution. A job owns at most one result row; each run replaces
// the previous payloads as a whole.
type ResearchResult struct {
	gorm.Model
	JobID                   uint            `json:"job_id" gorm:"not null;uniqueIndex"`
	MarketAnalysis          json.RawMessage `json:"market_analysis,omitempty" gorm:"type:jsonb"`
	SolutionProposals       json.RawMessage `json:"solution_proposals,omitempty" gorm:"type:jsonb"`
	InfrastructureBlueprint json.RawMessage `json:"infrastructure_blueprint,omitempty" gorm:"type:jsonb"`
	SuccessMetrics          json.RawMessage `json:"success_metrics,omitempty" gorm:"type:jsonb"`
	CreatedAt               time.Time       `json:"created_at" gorm:"index"`
}

// MarshalJSON implements the json.Marshaler interface for ResearchResult
func (r ResearchResult) MarshalJSON() ([]byte, error) {
	type Alias ResearchResult // Create an alias to avoid infinite recursion
	return json.Marshal(Alias(r))
}
