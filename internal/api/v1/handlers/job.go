package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ventureforge/forge/internal/api/v1/middleware"
	"github.com/ventureforge/forge/internal/db/models"
	"github.com/ventureforge/forge/internal/services"
)

// JobHandler handles HTTP requests for job operations
type JobHandler struct {
	service *services.Job
}

// NewJobHandler creates a new job handler instance
func NewJobHandler(s *services.Job) *JobHandler {
	return &JobHandler{service: s}
}

// CreateJob handles the request to register a new research job
func (h *JobHandler) CreateJob(c *fiber.Ctx) error {
	var params services.CreateJobParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput(err.Error()))
	}

	job, err := h.service.Create(c.Context(), middleware.OwnerID(c), params)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(Response{
		Slug: SuccessSlug,
		Data: job,
	})
}

// ListJobs handles the request to list the caller's jobs
func (h *JobHandler) ListJobs(c *fiber.Ctx) error {
	var (
		limit  = c.QueryInt("limit", models.DefaultListLimit)
		offset = c.QueryInt("offset", 0)
		status = models.JobStatusUnknown
	)
	if str := c.Query("status"); str != "" {
		parsed, err := models.ParseJobStatus(str)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(errInvalidInput("invalid job status"))
		}
		status = parsed
	}

	jobs, err := h.service.List(c.Context(), middleware.OwnerID(c), status, &models.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(errServer(err.Error()))
	}

	return c.JSON(Response{
		Slug: SuccessSlug,
		Data: jobs,
	})
}

// GetJob handles the request to fetch a single job
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput("invalid job id"))
	}

	job, err := h.service.Get(c.Context(), middleware.OwnerID(c), uint(jobID))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).
				JSON(errNotFound("job not found"))
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(errServer(err.Error()))
	}

	return c.JSON(Response{
		Slug: SuccessSlug,
		Data: job,
	})
}

// RunJob handles the request to trigger an out-of-cycle run
func (h *JobHandler) RunJob(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput("invalid job id"))
	}

	if err := h.service.RunNow(c.Context(), middleware.OwnerID(c), uint(jobID)); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).
				JSON(errNotFound("job not found"))
		}
		return c.Status(fiber.StatusConflict).
			JSON(errInvalidInput(err.Error()))
	}

	return c.Status(fiber.StatusAccepted).JSON(Response{
		Slug: SuccessSlug,
		Data: "job run triggered",
	})
}

// GetJobResults handles the request to fetch a job's research result
func (h *JobHandler) GetJobResults(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput("invalid job id"))
	}

	result, err := h.service.Results(c.Context(), middleware.OwnerID(c), uint(jobID))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).
				JSON(errNotFound("job not found"))
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(errServer(err.Error()))
	}
	if result == nil {
		return c.Status(fiber.StatusNotFound).
			JSON(errNotFound("no results yet for this job"))
	}

	return c.JSON(Response{
		Slug: SuccessSlug,
		Data: result,
	})
}

// DashboardStats handles the request for the caller's job statistics
func (h *JobHandler) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context(), middleware.OwnerID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(errServer(err.Error()))
	}

	return c.JSON(Response{
		Slug: SuccessSlug,
		Data: stats,
	})
}
