package scheduler

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/ventureforge/forge/internal/db/models"
	"github.com/ventureforge/forge/internal/logger"
)

// DefaultConcurrencyLimit bounds how many jobs run simultaneously per cycle
const DefaultConcurrencyLimit = 3

// Dispatcher fans a batch of eligible jobs out to the executor under a
// bounded concurrency gate. A job's failure never aborts or blocks its batch
// siblings.
type Dispatcher struct {
	executor *Executor
	limit    int
}

// NewDispatcher creates a dispatcher over the given executor.
func NewDispatcher(executor *Executor, limit int) *Dispatcher {
	if limit <= 0 {
		limit = DefaultConcurrencyLimit
	}
	return &Dispatcher{executor: executor, limit: limit}
}

// Run executes every job in the batch and returns once all of them have
// reached a terminal-or-skipped outcome for this cycle.
func (d *Dispatcher) Run(ctx context.Context, jobs []models.Job) {
	if len(jobs) == 0 {
		return
	}

	var failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(d.limit)

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			if err := d.executor.Execute(ctx, job); err != nil {
				// Already logged and recorded against the job; isolate it.
				failed.Add(1)
			}
			return nil
		})
	}
	// Goroutines always return nil; Wait only joins them.
	_ = g.Wait()

	logger.InfoWithFields("Cycle batch finished", map[string]interface{}{
		"jobs":   len(jobs),
		"failed": failed.Load(),
	})
}
