package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJobStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    JobStatus
		wantErr bool
	}{
		{"pending", JobStatusPending, false},
		{"running", JobStatusRunning, false},
		{"completed", JobStatusCompleted, false},
		{"failed", JobStatusFailed, false},
		{"unknown", JobStatusUnknown, false},
		{"paused", JobStatusUnknown, true},
		{"", JobStatusUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseJobStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJobStatusUnmarshalJSON(t *testing.T) {
	var status JobStatus
	require.NoError(t, json.Unmarshal([]byte(`"running"`), &status))
	assert.Equal(t, JobStatusRunning, status)

	assert.Error(t, json.Unmarshal([]byte(`"bogus"`), &status))
	assert.Error(t, json.Unmarshal([]byte(`42`), &status))
}

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		input   string
		want    Frequency
		wantErr bool
	}{
		{"one-time", FrequencyOneTime, false},
		{"daily", FrequencyDaily, false},
		{"weekly", FrequencyWeekly, false},
		{"monthly", FrequencyMonthly, false},
		{"hourly", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFrequency(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFrequencyIsRecurring(t *testing.T) {
	assert.False(t, FrequencyOneTime.IsRecurring())
	assert.True(t, FrequencyDaily.IsRecurring())
	assert.True(t, FrequencyWeekly.IsRecurring())
	assert.True(t, FrequencyMonthly.IsRecurring())
	assert.False(t, Frequency("hourly").IsRecurring())
}

func TestParseJobTypeAndDepth(t *testing.T) {
	jobType, err := ParseJobType("validation")
	require.NoError(t, err)
	assert.Equal(t, JobTypeValidation, jobType)

	_, err = ParseJobType("marketing")
	assert.Error(t, err)

	depth, err := ParseDepth("expert")
	require.NoError(t, err)
	assert.Equal(t, DepthExpert, depth)

	_, err = ParseDepth("shallow")
	assert.Error(t, err)
}

func TestJobValidate(t *testing.T) {
	job := Job{
		Title:     "validate the idea",
		JobType:   JobTypeValidation,
		Frequency: FrequencyDaily,
	}
	assert.NoError(t, job.Validate())

	noTitle := job
	noTitle.Title = ""
	assert.Error(t, noTitle.Validate())

	badType := job
	badType.JobType = "marketing"
	assert.Error(t, badType.Validate())

	badFreq := job
	badFreq.Frequency = "hourly"
	assert.Error(t, badFreq.Validate())
}

func TestJobBeforeCreateDefaults(t *testing.T) {
	job := Job{
		Title:     "defaulted job",
		JobType:   JobTypeSolution,
		Frequency: FrequencyWeekly,
	}
	require.NoError(t, job.BeforeCreate(nil))

	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, DefaultScheduledTime, job.ScheduledTime)
	assert.Equal(t, DepthDeep, job.Depth)
}
