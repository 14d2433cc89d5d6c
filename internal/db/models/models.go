// Package models contains the database models for research jobs, their
// results, and users.
package models

// ListOptions provides pagination parameters for list queries
type ListOptions struct {
	Limit  int
	Offset int
}

// DefaultListLimit is applied when a list query does not specify a limit
const DefaultListLimit = 50
