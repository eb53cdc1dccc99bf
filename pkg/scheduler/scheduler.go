// Package scheduler runs reminder jobs on fixed intervals with a
// re-entrancy guard: one execution per job at a time, concurrent triggers
// are rejected or dropped rather than queued.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/clinichq/reminder-engine/internal/model"
	"github.com/clinichq/reminder-engine/pkg/errors"
	"github.com/clinichq/reminder-engine/pkg/logger"
	"github.com/clinichq/reminder-engine/pkg/metrics"
)

// Job is one periodic reminder scan.
type Job interface {
	Name() string
	Run(ctx context.Context) (*model.SchedulerRunResult, error)
}

// Scheduler drives a single job on a ticker.
type Scheduler struct {
	job      Job
	interval time.Duration
	enabled  bool
	metrics  *metrics.Metrics
	logger   *logger.Logger

	processing atomic.Bool
	running    atomic.Bool

	// lifecycle serializes Start and Stop so Stop never observes running
	// true before cancel and done are assigned.
	lifecycle sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}

	mu            sync.Mutex
	lastRunAt     *time.Time
	lastRunResult *model.SchedulerRunResult
}

func New(job Job, interval time.Duration, enabled bool, m *metrics.Metrics, log *logger.Logger) *Scheduler {
	return &Scheduler{
		job:      job,
		interval: interval,
		enabled:  enabled,
		metrics:  m,
		logger:   log.WithFields(map[string]interface{}{"job": job.Name()}),
	}
}

func (s *Scheduler) Name() string {
	return s.job.Name()
}

// Start launches the ticker loop. Disabled and already-running schedulers
// are left alone; RunNow still works for a disabled job.
func (s *Scheduler) Start() {
	if !s.enabled {
		s.logger.Warn("scheduler is disabled, start ignored")
		return
	}
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("scheduler already started")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	s.logger.Info("scheduler started", "interval", s.interval.String())

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.execute(ctx); err != nil {
					if errors.Is(err, errors.ErrAlreadyProcessing) {
						// The previous run is still in flight. Triggers are
						// dropped, never queued.
						s.metrics.JobTriggersDropped.WithLabelValues(s.job.Name()).Inc()
						s.logger.Warn("scheduled trigger dropped, previous run still in flight")
						continue
					}
					s.logger.Error(err, "job run failed")
				}
			}
		}
	}()
}

// Stop halts the ticker loop and waits for it to exit. An in-flight run is
// not interrupted beyond context cancellation.
func (s *Scheduler) Stop() {
	s.lifecycle.Lock()
	if !s.running.CompareAndSwap(true, false) {
		s.lifecycle.Unlock()
		return
	}
	cancel, done := s.cancel, s.done
	s.lifecycle.Unlock()

	cancel()
	<-done
	s.logger.Info("scheduler stopped")
}

// RunNow executes the job immediately, bypassing the ticker but not the
// re-entrancy guard.
func (s *Scheduler) RunNow(ctx context.Context) (*model.SchedulerRunResult, error) {
	return s.execute(ctx)
}

func (s *Scheduler) execute(ctx context.Context) (*model.SchedulerRunResult, error) {
	if !s.processing.CompareAndSwap(false, true) {
		return nil, errors.ErrAlreadyProcessing
	}
	defer s.processing.Store(false)

	start := time.Now()
	s.metrics.JobRunsTotal.WithLabelValues(s.job.Name()).Inc()

	result, err := s.job.Run(ctx)
	elapsed := time.Since(start)
	s.metrics.JobRunDuration.WithLabelValues(s.job.Name()).Observe(elapsed.Seconds())

	if result == nil {
		result = &model.SchedulerRunResult{}
	}
	result.Duration = elapsed

	s.metrics.RemindersSent.WithLabelValues(s.job.Name()).Add(float64(result.Sent))
	s.metrics.RemindersFailed.WithLabelValues(s.job.Name()).Add(float64(result.Failed))
	s.metrics.RemindersSkipped.WithLabelValues(s.job.Name()).Add(float64(result.Skipped))

	s.mu.Lock()
	now := time.Now()
	s.lastRunAt = &now
	s.lastRunResult = result
	s.mu.Unlock()

	if err != nil {
		return result, err
	}

	s.logger.Info("job run complete",
		"total", result.Total, "sent", result.Sent,
		"failed", result.Failed, "skipped", result.Skipped,
		"duration", elapsed.String())
	return result, nil
}

// Status returns a point-in-time snapshot.
func (s *Scheduler) Status() model.SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.SchedulerStatus{
		Name:          s.job.Name(),
		Running:       s.running.Load(),
		Processing:    s.processing.Load(),
		LastRunAt:     s.lastRunAt,
		LastRunResult: s.lastRunResult,
	}
}
