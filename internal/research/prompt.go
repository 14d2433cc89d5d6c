package research

import (
	"fmt"

	"github.com/ventureforge/forge/internal/db/models"
)

const validationPrompt = `As an expert business analyst, conduct comprehensive market validation for this business idea:

Title: %s
Description: %s
Research Depth: %s

Provide a detailed JSON response with:
1. "market_analysis": market size (TAM, SAM, SOM), target audience, market trends, competitive landscape, entry barriers
2. "solution_proposals": existing solutions analysis and proposed differentiation
3. "infrastructure_blueprint": technology requirements to validate the idea
4. "success_probability": overall score from 0 to 100
5. "key_insights" and "recommendations" as string arrays

Format as valid JSON with clear structure.`

const solutionPrompt = `As an expert business strategist, develop a complete solution for this business idea:

Title: %s
Description: %s
Research Depth: %s

Provide a detailed JSON response with:
1. "market_analysis": customer segments, value proposition, revenue streams
2. "solution_proposals": core features, user experience flow, development roadmap, go-to-market strategy
3. "infrastructure_blueprint": technology requirements and estimated costs
4. "success_probability": overall score from 0 to 100
5. "key_insights" and "recommendations" as string arrays

Format as valid JSON.`

const infrastructurePrompt = `As an expert technical architect, design complete infrastructure for this business:

Title: %s
Description: %s
Research Depth: %s

Provide a detailed JSON response with:
1. "market_analysis": scale expectations and operational constraints
2. "solution_proposals": architecture options with trade-offs
3. "infrastructure_blueprint": technology stack, system architecture, deployment strategy, cost estimates
4. "success_probability": technical feasibility score from 0 to 100
5. "key_insights" and "recommendations" as string arrays

Format as valid JSON.`

// buildPrompt renders the research prompt for a request based on its job type.
func buildPrompt(req Request) string {
	var tmpl string
	switch req.JobType {
	case models.JobTypeValidation:
		tmpl = validationPrompt
	case models.JobTypeSolution:
		tmpl = solutionPrompt
	default:
		tmpl = infrastructurePrompt
	}
	return fmt.Sprintf(tmpl, req.Title, req.Description, req.Depth)
}
