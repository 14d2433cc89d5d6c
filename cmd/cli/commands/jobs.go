package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ventureforge/forge/internal/db/models"
	"github.com/ventureforge/forge/internal/services"
)

// jobOutput represents the filtered output for a job
type jobOutput struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	JobType       string `json:"job_type"`
	Frequency     string `json:"frequency"`
	ScheduledTime string `json:"scheduled_time"`
	Status        string `json:"status"`
	NextRun       string `json:"next_run,omitempty"`
	LastRun       string `json:"last_run,omitempty"`
}

// jobListOutput represents the filtered output for a list of jobs
type jobListOutput struct {
	Jobs []jobOutput `json:"jobs"`
}

func toJobOutput(job models.Job) jobOutput {
	out := jobOutput{
		ID:            job.ID,
		Title:         job.Title,
		JobType:       string(job.JobType),
		Frequency:     string(job.Frequency),
		ScheduledTime: job.ScheduledTime,
		Status:        string(job.Status),
	}
	if job.NextRun != nil {
		out.NextRun = job.NextRun.Format(time.RFC3339)
	}
	if job.LastRun != nil {
		out.LastRun = job.LastRun.Format(time.RFC3339)
	}
	return out
}

func printJSON(v interface{}) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	fmt.Println(string(prettyJSON))
	return nil
}

func parseIDFlag(cmd *cobra.Command) (uint, error) {
	raw, _ := cmd.Flags().GetString("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid job id %q: %w", raw, err)
	}
	return uint(id), nil
}

func init() {
	jobsCmd.AddCommand(listJobsCmd)
	jobsCmd.AddCommand(getJobCmd)
	jobsCmd.AddCommand(createJobCmd)
	jobsCmd.AddCommand(runJobCmd)
	jobsCmd.AddCommand(jobResultsCmd)
	jobsCmd.AddCommand(jobStatsCmd)

	listJobsCmd.Flags().StringP("limit", "l", "", "Limit the number of jobs returned")
	listJobsCmd.Flags().String("status", "", "Filter jobs by status")

	getJobCmd.Flags().StringP("id", "i", "", "Job ID to fetch")
	_ = getJobCmd.MarkFlagRequired("id")

	createJobCmd.Flags().String("title", "", "Job title")
	createJobCmd.Flags().String("description", "", "Idea description to research")
	createJobCmd.Flags().String("type", "", "Research type (validation, solution, infrastructure)")
	createJobCmd.Flags().String("frequency", "", "Run frequency (one-time, daily, weekly, monthly)")
	createJobCmd.Flags().String("depth", "", "Research depth (quick, deep, expert)")
	createJobCmd.Flags().String("scheduled-time", "", "Daily fire time as HH:MM")
	_ = createJobCmd.MarkFlagRequired("title")
	_ = createJobCmd.MarkFlagRequired("type")
	_ = createJobCmd.MarkFlagRequired("frequency")

	runJobCmd.Flags().StringP("id", "i", "", "Job ID to run")
	_ = runJobCmd.MarkFlagRequired("id")

	jobResultsCmd.Flags().StringP("id", "i", "", "Job ID to fetch results for")
	_ = jobResultsCmd.MarkFlagRequired("id")
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage research jobs",
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List your jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetString("limit")
		status, _ := cmd.Flags().GetString("status")

		opts := &models.ListOptions{}
		if limit != "" {
			limitInt, err := strconv.Atoi(limit)
			if err != nil {
				return fmt.Errorf("invalid limit value: %w", err)
			}
			opts.Limit = limitInt
		}

		jobs, err := apiClient.GetJobs(context.Background(), status, opts)
		if err != nil {
			return fmt.Errorf("error fetching jobs: %w", err)
		}

		output := jobListOutput{Jobs: make([]jobOutput, len(jobs))}
		for i, job := range jobs {
			output.Jobs[i] = toJobOutput(job)
		}
		return printJSON(output)
	},
}

var getJobCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a specific job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, err := parseIDFlag(cmd)
		if err != nil {
			return err
		}

		job, err := apiClient.GetJob(context.Background(), id)
		if err != nil {
			return fmt.Errorf("error fetching job: %w", err)
		}
		return printJSON(toJobOutput(job))
	},
}

var createJobCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new research job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		jobType, _ := cmd.Flags().GetString("type")
		frequency, _ := cmd.Flags().GetString("frequency")
		depth, _ := cmd.Flags().GetString("depth")
		scheduledTime, _ := cmd.Flags().GetString("scheduled-time")

		job, err := apiClient.CreateJob(context.Background(), services.CreateJobParams{
			Title:         title,
			Description:   description,
			JobType:       jobType,
			Frequency:     frequency,
			Depth:         depth,
			ScheduledTime: scheduledTime,
		})
		if err != nil {
			return fmt.Errorf("error creating job: %w", err)
		}
		return printJSON(toJobOutput(job))
	},
}

var runJobCmd = &cobra.Command{
	Use:   "run",
	Short: "Trigger an out-of-cycle run of a job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, err := parseIDFlag(cmd)
		if err != nil {
			return err
		}

		if err := apiClient.RunJob(context.Background(), id); err != nil {
			return fmt.Errorf("error running job: %w", err)
		}
		fmt.Printf("Job %d queued for execution\n", id)
		return nil
	},
}

var jobResultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Fetch the research result of a job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, err := parseIDFlag(cmd)
		if err != nil {
			return err
		}

		result, err := apiClient.GetJobResults(context.Background(), id)
		if err != nil {
			return fmt.Errorf("error fetching results: %w", err)
		}
		return printJSON(result)
	},
}

var jobStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your job statistics",
	RunE: func(_ *cobra.Command, _ []string) error {
		stats, err := apiClient.GetDashboardStats(context.Background())
		if err != nil {
			return fmt.Errorf("error fetching stats: %w", err)
		}
		return printJSON(stats)
	},
}

// GetJobsCmd returns the jobs command
func GetJobsCmd() *cobra.Command {
	return jobsCmd
}
