package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ventureforge/forge/internal/db/models"
	"github.com/ventureforge/forge/internal/logger"
)

// Driver timing defaults
const (
	// DefaultTickInterval is the pause between scheduler cycles
	DefaultTickInterval = time.Minute
	// DefaultBackoffInterval is the extended pause after a failed cycle
	DefaultBackoffInterval = 5 * time.Minute
)

// Driver owns the periodic scheduling loop: each cycle selects the eligible
// jobs and hands them to the dispatcher. It is an explicit object with a
// start/stop lifecycle; the process's composition root holds the only
// reference.
type Driver struct {
	store      Store
	dispatcher *Dispatcher
	interval   time.Duration
	backoff    time.Duration
	now        func() time.Time

	mu      sync.Mutex
	started bool
	stop    chan struct{}
	done    chan struct{}
	adhoc   sync.WaitGroup
}

// NewDriver creates a cycle driver. Zero intervals fall back to the defaults.
func NewDriver(store Store, dispatcher *Dispatcher, interval, backoff time.Duration) *Driver {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if backoff <= 0 {
		backoff = DefaultBackoffInterval
	}
	return &Driver{
		store:      store,
		dispatcher: dispatcher,
		interval:   interval,
		backoff:    backoff,
		now:        time.Now,
	}
}

// Start spawns the driver loop. It is an error to start a running driver.
func (d *Driver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return fmt.Errorf("scheduler driver already started")
	}
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	d.started = true

	go d.loop(d.stop, d.done)
	logger.Info("Scheduler driver started")
	return nil
}

// Stop signals the loop to exit after the current cycle and waits, bounded
// by ctx, for the loop and any ad-hoc runs to finish. In-flight work is not
// interrupted; on ctx expiry Stop returns and leaves it to drain on its own.
func (d *Driver) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return nil
	}
	d.started = false
	close(d.stop)
	done := d.done
	d.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		d.adhoc.Wait()
		close(drained)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
	select {
	case <-drained:
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}

	logger.Info("Scheduler driver stopped")
	return nil
}

// TriggerJob runs a single job through the dispatcher outside the periodic
// cycle. The run is identical to a cycle-selected one: the executor claims
// first, so a job already running is silently skipped. Stop waits for
// triggered runs before returning.
func (d *Driver) TriggerJob(job models.Job) {
	d.adhoc.Add(1)
	go func() {
		defer d.adhoc.Done()
		d.dispatcher.Run(context.Background(), []models.Job{job})
	}()
}

func (d *Driver) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		delay := d.interval
		if err := d.runCycle(); err != nil {
			logger.Errorf("Scheduler cycle error: %v", err)
			delay = d.backoff
		}

		select {
		case <-stop:
			return
		case <-time.After(delay):
		}
	}
}

// runCycle performs one select-and-dispatch iteration. An eligibility query
// failure skips the whole cycle; the caller applies backoff.
func (d *Driver) runCycle() error {
	ctx := context.Background()
	now := d.now()

	jobs, err := d.store.ListEligible(ctx, now)
	if err != nil {
		return fmt.Errorf("select eligible jobs: %w", err)
	}
	if len(jobs) == 0 {
		logger.Debug("No jobs eligible this cycle")
		return nil
	}

	logger.Infof("Found %d eligible jobs", len(jobs))
	d.dispatcher.Run(ctx, jobs)
	return nil
}
