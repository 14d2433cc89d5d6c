// Package scheduler implements the recurring-job scheduling and execution
// engine: cadence computation, eligibility-driven dispatch with bounded
// concurrency, and the per-job execution state machine.
package scheduler

import (
	"strconv"
	"strings"
	"time"

	"github.com/ventureforge/forge/internal/db/models"
)

// NextRun computes the next eligible instant for a job after a run triggered
// at now. It returns false for one-time (and unknown) frequencies, which have
// no next occurrence.
//
//   - daily: today at the scheduled time, rolled to tomorrow if that instant
//     has already passed
//   - weekly: a flat seven-day add from now, at the scheduled time
//   - monthly: same day-of-month in the following month (December wraps to
//     January), with the day clamped to the target month's last valid day
//
// A scheduled time that does not parse as HH:MM falls back to 09:00.
func NextRun(freq models.Frequency, scheduledTime string, now time.Time) (time.Time, bool) {
	hour, minute := parseScheduledTime(scheduledTime)
	at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())

	switch freq {
	case models.FrequencyDaily:
		if !at.After(now) {
			at = at.AddDate(0, 0, 1)
		}
		return at, true
	case models.FrequencyWeekly:
		return at.AddDate(0, 0, 7), true
	case models.FrequencyMonthly:
		year, month := now.Year(), now.Month()+1
		if now.Month() == time.December {
			year, month = now.Year()+1, time.January
		}
		day := now.Day()
		if last := daysInMonth(year, month); day > last {
			day = last
		}
		return time.Date(year, month, day, hour, minute, 0, 0, now.Location()), true
	default:
		return time.Time{}, false
	}
}

// parseScheduledTime parses an HH:MM time of day, defaulting to 09:00 when
// the value is missing or malformed.
func parseScheduledTime(s string) (hour, minute int) {
	hour, minute = 9, 0

	parts := strings.Split(s, ":")
	if len(parts) < 1 || len(parts) > 3 {
		return 9, 0
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 || h > 23 {
		return 9, 0
	}
	m := 0
	if len(parts) > 1 {
		m, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || m < 0 || m > 59 {
			return 9, 0
		}
	}
	return h, m
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
