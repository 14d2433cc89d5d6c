// Package research defines the research provider boundary and the Gemini
// backed implementation of it.
package research

import (
	"context"
	"encoding/json"

	"github.com/ventureforge/forge/internal/db/models"
)

// Request describes one research task handed to a provider. The fields are
// passed through from the job unchanged.
type Request struct {
	Title       string
	Description string
	JobType     models.JobType
	Depth       models.Depth
}

// Result is the structured output of a research run. The payloads are opaque
// to the scheduler and persisted unchanged.
type Result struct {
	MarketAnalysis          json.RawMessage
	SolutionProposals       json.RawMessage
	InfrastructureBlueprint json.RawMessage
	SuccessMetrics          json.RawMessage
	SuccessProbability      int
	Degraded                bool // provider output could not be parsed; placeholder payloads
}

// Provider produces a structured research result for a job, or fails.
// Implementations must honor context cancellation; a timed-out call is
// treated as a provider failure by the caller.
type Provider interface {
	Research(ctx context.Context, req Request) (*Result, error)
}
