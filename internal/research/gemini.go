package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ventureforge/forge/internal/logger"
)

// DefaultBaseURL is the Gemini API endpoint used when none is configured
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// DefaultModel is the Gemini model used when none is configured
const DefaultModel = "gemini-pro"

// DegradedSuccessProbability is the neutral score recorded when the model's
// output cannot be parsed into the expected structure.
const DegradedSuccessProbability = 50

// APIError represents a Gemini API error response
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface for APIError
func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API error: %s (status: %d)", e.Message, e.Status)
}

// IsRateLimited returns true if the error is a rate limit error
func (e *APIError) IsRateLimited() bool {
	return e.Status == http.StatusTooManyRequests
}

// GeminiOptions configures the Gemini client
type GeminiOptions struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// GeminiClient is a research provider backed by the Gemini generateContent
// API.
type GeminiClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

var _ Provider = &GeminiClient{}

// NewGeminiClient creates a new Gemini research client
func NewGeminiClient(opts GeminiOptions) (*GeminiClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &GeminiClient{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		model:      model,
	}, nil
}

// Wire types for the generateContent endpoint

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

// structuredOutput is the shape the prompts ask the model to produce
type structuredOutput struct {
	MarketAnalysis          json.RawMessage `json:"market_analysis"`
	SolutionProposals       json.RawMessage `json:"solution_proposals"`
	InfrastructureBlueprint json.RawMessage `json:"infrastructure_blueprint"`
	SuccessProbability      *int            `json:"success_probability"`
	KeyInsights             json.RawMessage `json:"key_insights"`
	Recommendations         json.RawMessage `json:"recommendations"`
}

// Research sends the job's prompt to Gemini and parses the structured result.
// Transport failures, timeouts and non-2xx statuses are returned as errors;
// output that cannot be parsed into the expected structure yields a degraded
// placeholder result instead, so the job still reaches a terminal state.
func (c *GeminiClient) Research(ctx context.Context, req Request) (*Result, error) {
	text, err := c.generate(ctx, buildPrompt(req))
	if err != nil {
		return nil, err
	}
	return parseResult(req, text), nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warnf("Failed to close response body: %v", cerr)
		}
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return genResp.Candidates[0].Content.Parts[0].Text, nil
}

// parseResult turns the model's text output into a Result, falling back to a
// clearly labeled placeholder when the output is not the requested JSON.
func parseResult(req Request, text string) *Result {
	raw := extractJSON(text)

	var out structuredOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out.SuccessProbability == nil {
		logger.Warnf("Unparseable research output for %q, recording degraded result", req.Title)
		return degradedResult(req, text)
	}

	probability := clampProbability(*out.SuccessProbability)
	metrics := map[string]interface{}{
		"success_probability": probability,
	}
	if len(out.KeyInsights) > 0 {
		metrics["key_insights"] = out.KeyInsights
	}
	if len(out.Recommendations) > 0 {
		metrics["recommendations"] = out.Recommendations
	}
	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		metricsJSON = []byte(fmt.Sprintf(`{"success_probability":%d}`, probability))
	}

	return &Result{
		MarketAnalysis:          orEmptyObject(out.MarketAnalysis),
		SolutionProposals:       orEmptyArray(out.SolutionProposals),
		InfrastructureBlueprint: orEmptyObject(out.InfrastructureBlueprint),
		SuccessMetrics:          metricsJSON,
		SuccessProbability:      probability,
	}
}

func degradedResult(req Request, text string) *Result {
	snippet := text
	if len(snippet) > 500 {
		snippet = snippet[:500]
	}
	analysis, _ := json.Marshal(map[string]string{
		"summary": snippet,
		"note":    "provider output could not be parsed; manual review required",
	})
	proposals, _ := json.Marshal([]map[string]string{{
		"title":       "Manual Review Required",
		"description": fmt.Sprintf("Automated parsing failed for %q; see market analysis summary", req.Title),
	}})
	metrics, _ := json.Marshal(map[string]int{
		"success_probability": DegradedSuccessProbability,
	})

	return &Result{
		MarketAnalysis:          analysis,
		SolutionProposals:       proposals,
		InfrastructureBlueprint: json.RawMessage(`{}`),
		SuccessMetrics:          metrics,
		SuccessProbability:      DegradedSuccessProbability,
		Degraded:                true,
	}
}

// extractJSON strips a markdown code fence around the model output, if any.
func extractJSON(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+len("```"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
	}
	return strings.TrimSpace(text)
}

func clampProbability(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func orEmptyObject(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(`{}`)
	}
	return raw
}

func orEmptyArray(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(`[]`)
	}
	return raw
}
