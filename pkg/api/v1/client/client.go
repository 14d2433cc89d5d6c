// Package client provides the API client for interacting with the
// VentureForge API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/ventureforge/forge/internal/db/models"
	"github.com/ventureforge/forge/internal/db/repos"
	"github.com/ventureforge/forge/internal/services"
)

// DefaultBaseURL is the API address used when none is configured
const DefaultBaseURL = "http://localhost:8080"

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// Client is the interface for the API client
type Client interface {
	HealthCheck(ctx context.Context) (map[string]string, error)
	Login(ctx context.Context, email, password string) (string, error)

	CreateJob(ctx context.Context, params services.CreateJobParams) (models.Job, error)
	GetJobs(ctx context.Context, status string, opts *models.ListOptions) ([]models.Job, error)
	GetJob(ctx context.Context, id uint) (models.Job, error)
	RunJob(ctx context.Context, id uint) error
	GetJobResults(ctx context.Context, id uint) (models.ResearchResult, error)
	GetDashboardStats(ctx context.Context) (repos.JobStats, error)
}

var _ Client = &APIClient{}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string
	// AuthToken is the bearer token attached to authenticated requests
	AuthToken string
	// Timeout is the request timeout
	Timeout time.Duration
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL   string
	timeout   time.Duration
	AuthToken string
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (*APIClient, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &APIClient{
		baseURL:   opts.BaseURL,
		timeout:   timeout,
		AuthToken: opts.AuthToken,
	}, nil
}

// envelope mirrors the server's response wrapper
type envelope struct {
	Slug  string          `json:"slug"`
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data"`
}

func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	fullURL := c.baseURL + endpoint

	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	agent.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.AuthToken != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.AuthToken)
	}
	if body != nil {
		agent.JSON(body)
	}
	return agent, nil
}

// do performs the request and decodes the envelope's data into out, which
// may be nil when the caller only cares about success.
func (c *APIClient) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	status, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("request failed: %v", errs[0])
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("failed to decode response (status %d): %w", status, err)
	}
	if status < 200 || status >= 300 {
		if env.Error != "" {
			return fmt.Errorf("API error (status %d): %s", status, env.Error)
		}
		return fmt.Errorf("API error (status %d)", status)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// HealthCheck checks the API health endpoint
func (c *APIClient) HealthCheck(ctx context.Context) (map[string]string, error) {
	agent, err := c.createAgent(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}
	status, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("request failed: %v", errs[0])
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("health check failed (status %d)", status)
	}
	var out map[string]string
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return out, nil
}

// Login authenticates and returns a bearer token. The token is also stored
// on the client for subsequent requests.
func (c *APIClient) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return "", err
	}
	c.AuthToken = out.Token
	return out.Token, nil
}

// CreateJob registers a new research job
func (c *APIClient) CreateJob(ctx context.Context, params services.CreateJobParams) (models.Job, error) {
	var job models.Job
	err := c.do(ctx, http.MethodPost, "/api/v1/jobs/", params, &job)
	return job, err
}

// GetJobs lists the caller's jobs
func (c *APIClient) GetJobs(ctx context.Context, status string, opts *models.ListOptions) ([]models.Job, error) {
	endpoint := "/api/v1/jobs/"
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if opts != nil {
		if opts.Limit > 0 {
			query.Set("limit", fmt.Sprintf("%d", opts.Limit))
		}
		if opts.Offset > 0 {
			query.Set("offset", fmt.Sprintf("%d", opts.Offset))
		}
	}
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var jobs []models.Job
	err := c.do(ctx, http.MethodGet, endpoint, nil, &jobs)
	return jobs, err
}

// GetJob fetches a single job
func (c *APIClient) GetJob(ctx context.Context, id uint) (models.Job, error) {
	var job models.Job
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d", id), nil, &job)
	return job, err
}

// RunJob triggers an out-of-cycle run of a job
func (c *APIClient) RunJob(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/run", id), nil, nil)
}

// GetJobResults fetches a job's research result
func (c *APIClient) GetJobResults(ctx context.Context, id uint) (models.ResearchResult, error) {
	var result models.ResearchResult
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d/results", id), nil, &result)
	return result, err
}

// GetDashboardStats fetches the caller's job statistics
func (c *APIClient) GetDashboardStats(ctx context.Context) (repos.JobStats, error) {
	var stats repos.JobStats
	err := c.do(ctx, http.MethodGet, "/api/v1/dashboard/stats", nil, &stats)
	return stats, err
}
