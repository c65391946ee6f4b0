package CronJobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Job is one refresh of the local task copy.
type Job func(ctx context.Context) error

// Refresher re-runs the task fetch sequence on a cron schedule.
type Refresher struct {
	cronScheduler *cron.Cron
	job           Job
	schedule      string
	timeout       time.Duration

	mu      sync.Mutex
	running bool
	lastRun time.Time
	lastErr error
}

// NewRefresher builds a refresher. The schedule takes a leading seconds field,
// e.g. "0 */5 * * * *" runs every five minutes.
func NewRefresher(schedule string, timeout time.Duration, job Job) *Refresher {
	return &Refresher{
		cronScheduler: cron.New(cron.WithSeconds()),
		job:           job,
		schedule:      schedule,
		timeout:       timeout,
	}
}

// Start schedules the refresh and starts the scheduler.
func (r *Refresher) Start() error {
	if _, err := r.cronScheduler.AddFunc(r.schedule, r.run); err != nil {
		return fmt.Errorf("error scheduling refresh: %w", err)
	}
	r.cronScheduler.Start()
	log.WithField("schedule", r.schedule).Info("Task refresh scheduler started")
	return nil
}

// Stop terminates the scheduler and waits for a running refresh.
func (r *Refresher) Stop() {
	if r.cronScheduler != nil {
		<-r.cronScheduler.Stop().Done()
		log.Info("Task refresh scheduler stopped")
	}
}

// RunNow refreshes immediately and returns the result. It returns nil
// without refreshing when a scheduled run is still going.
func (r *Refresher) RunNow() error {
	return r.refresh()
}

// LastRun reports when the last refresh finished and how it ended.
func (r *Refresher) LastRun() (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastRun, r.lastErr
}

func (r *Refresher) run() {
	if err := r.refresh(); err != nil {
		log.WithError(err).Warn("Scheduled task refresh failed")
	}
}

// refresh skips the run when another one is still going.
func (r *Refresher) refresh() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		log.Debug("Task refresh already running")
		return nil
	}
	r.running = true
	r.mu.Unlock()

	ctx := context.Background()
	var cancel context.CancelFunc
	if r.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	err := r.job(ctx)

	r.mu.Lock()
	r.running = false
	r.lastRun = time.Now()
	r.lastErr = err
	r.mu.Unlock()
	return err
}
