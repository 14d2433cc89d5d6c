package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Field names for the job model
const (
	// JobStatusField is the database field name for the job status
	JobStatusField = "status"
	// JobCreatedAtField is the database field name for the job creation timestamp
	JobCreatedAtField = "created_at"
	// JobUpdatedAtField is the database field name for the job update timestamp
	JobUpdatedAtField = "updated_at"
)

// DefaultScheduledTime is used when a job carries no valid time of day
const DefaultScheduledTime = "09:00"

// JobStatus represents the current state of a research job
type JobStatus string

// Job status constants
const (
	// JobStatusUnknown represents an unknown or invalid job status
	JobStatusUnknown JobStatus = "unknown"
	// JobStatusPending indicates the job is armed and waiting for its next run
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job has been claimed by an executor
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates a one-time job finished successfully
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job's last execution failed
	JobStatusFailed JobStatus = "failed"
)

// String returns the string representation of the job status
func (s JobStatus) String() string {
	return string(s)
}

// ParseJobStatus converts a string to a JobStatus type
func ParseJobStatus(str string) (JobStatus, error) {
	switch str {
	case string(JobStatusPending):
		return JobStatusPending, nil
	case string(JobStatusRunning):
		return JobStatusRunning, nil
	case string(JobStatusCompleted):
		return JobStatusCompleted, nil
	case string(JobStatusFailed):
		return JobStatusFailed, nil
	case string(JobStatusUnknown):
		return JobStatusUnknown, nil
	default:
		return JobStatusUnknown, fmt.Errorf("invalid job status: %s", str)
	}
}

// UnmarshalJSON implements json.Unmarshaler for JobStatus
func (s *JobStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status, err := ParseJobStatus(str)
	if err != nil {
		return err
	}

	*s = status
	return nil
}

// Frequency represents the recurrence cadence of a research job
type Frequency string

// Frequency constants
const (
	// FrequencyOneTime indicates the job runs once and then terminates
	FrequencyOneTime Frequency = "one-time"
	// FrequencyDaily indicates the job runs every day at its scheduled time
	FrequencyDaily Frequency = "daily"
	// FrequencyWeekly indicates the job runs every seven days
	FrequencyWeekly Frequency = "weekly"
	// FrequencyMonthly indicates the job runs on the same day each month
	FrequencyMonthly Frequency = "monthly"
)

// String returns the string representation of the frequency
func (f Frequency) String() string {
	return string(f)
}

// IsRecurring reports whether the frequency produces further occurrences
func (f Frequency) IsRecurring() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

// ParseFrequency converts a string to a Frequency type
func ParseFrequency(str string) (Frequency, error) {
	switch str {
	case string(FrequencyOneTime):
		return FrequencyOneTime, nil
	case string(FrequencyDaily):
		return FrequencyDaily, nil
	case string(FrequencyWeekly):
		return FrequencyWeekly, nil
	case string(FrequencyMonthly):
		return FrequencyMonthly, nil
	default:
		return "", fmt.Errorf("invalid frequency: %s", str)
	}
}

// JobType represents the kind of research a job requests. The scheduler does
// not interpret it; it is passed through to the research provider.
type JobType string

// Job type constants
const (
	// JobTypeValidation requests market validation research
	JobTypeValidation JobType = "validation"
	// JobTypeSolution requests solution design research
	JobTypeSolution JobType = "solution"
	// JobTypeInfrastructure requests infrastructure blueprint research
	JobTypeInfrastructure JobType = "infrastructure"
)

// ParseJobType converts a string to a JobType
func ParseJobType(str string) (JobType, error) {
	switch str {
	case string(JobTypeValidation):
		return JobTypeValidation, nil
	case string(JobTypeSolution):
		return JobTypeSolution, nil
	case string(JobTypeInfrastructure):
		return JobTypeInfrastructure, nil
	default:
		return "", fmt.Errorf("invalid job type: %s", str)
	}
}

// Depth represents how thorough the requested research should be
type Depth string

// Depth constants
const (
	// DepthQuick requests a fast shallow pass
	DepthQuick Depth = "quick"
	// DepthDeep requests the standard research depth
	DepthDeep Depth = "deep"
	// DepthExpert requests the most thorough research
	DepthExpert Depth = "expert"
)

// ParseDepth converts a string to a Depth
func ParseDepth(str string) (Depth, error) {
	switch str {
	case string(DepthQuick):
		return DepthQuick, nil
	case string(DepthDeep):
		return DepthDeep, nil
	case string(DepthExpert):
		return DepthExpert, nil
	default:
		return "", fmt.Errorf("invalid research depth: %s", str)
	}
}

// Job represents a registered research task with a recurrence cadence.
//
// Status, LastRun, NextRun and SuccessProbability are mutated exclusively by
// the execution unit after the job has been claimed.
type Job struct {
	gorm.Model
	OwnerID            uint       `json:"owner_id" gorm:"not null;index"` // ID from the users table
	Title              string     `json:"title" gorm:"not null;index"`
	Description        string     `json:"description" gorm:"type:text"`
	JobType            JobType    `json:"job_type" gorm:"not null;index"`
	Frequency          Frequency  `json:"frequency" gorm:"not null;index"`
	Depth              Depth      `json:"depth" gorm:"not null;default:'deep'"`
	ScheduledTime      string     `json:"scheduled_time" gorm:"not null;default:'09:00'"` // HH:MM, local time
	Status             JobStatus  `json:"status" gorm:"not null;index"`
	SuccessProbability int        `json:"success_probability" gorm:"not null;default:0"`
	LastRun            *time.Time `json:"last_run,omitempty"`
	NextRun            *time.Time `json:"next_run,omitempty" gorm:"index"`
	CreatedAt          time.Time  `json:"created_at" gorm:"index"`
}

// MarshalJSON implements the json.Marshaler interface for Job
func (j Job) MarshalJSON() ([]byte, error) {
	type Alias Job // Create an alias to avoid infinite recursion
	return json.Marshal(Alias(j))
}

// Validate ensures that the job data is valid
func (j *Job) Validate() error {
	if j.Title == "" {
		return fmt.Errorf("job title cannot be empty")
	}
	if _, err := ParseJobType(string(j.JobType)); err != nil {
		return err
	}
	if _, err := ParseFrequency(string(j.Frequency)); err != nil {
		return err
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a new job
func (j *Job) BeforeCreate(_ *gorm.DB) error {
	if j.Status == "" {
		j.Status = JobStatusPending
	}
	if j.ScheduledTime == "" {
		j.ScheduledTime = DefaultScheduledTime
	}
	if j.Depth == "" {
		j.Depth = DepthDeep
	}
	return j.Validate()
}
