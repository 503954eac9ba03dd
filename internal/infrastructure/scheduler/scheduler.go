// Package scheduler runs background maintenance jobs on a small worker pool.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Job is a unit of background work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type funcJob struct {
	name string
	fn   func(ctx context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

// NewJob wraps fn as a named Job
func NewJob(name string, fn func(ctx context.Context) error) Job {
	return funcJob{name: name, fn: fn}
}

// RunStatus is the state of one job run
type RunStatus string

const (
	RunStatusPending RunStatus = "PENDING"
	RunStatusRunning RunStatus = "RUNNING"
	RunStatusSuccess RunStatus = "SUCCESS"
	RunStatusFailed  RunStatus = "FAILED"
)

// Run tracks one execution of a job, including its retries
type Run struct {
	ID          uuid.UUID
	Job         Job
	Status      RunStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
}

func newRun(job Job, maxRetries int) *Run {
	return &Run{
		ID:         uuid.New(),
		Job:        job,
		Status:     RunStatusPending,
		MaxRetries: maxRetries,
	}
}

func (r *Run) start() {
	now := time.Now()
	r.Status = RunStatusRunning
	r.StartedAt = &now
	r.Error = ""
}

func (r *Run) complete() {
	now := time.Now()
	r.Status = RunStatusSuccess
	r.CompletedAt = &now
}

func (r *Run) fail(err error) {
	now := time.Now()
	r.Status = RunStatusFailed
	r.CompletedAt = &now
	r.Error = err.Error()
}

// ShouldRetry reports whether a failed run has retries left
func (r *Run) ShouldRetry() bool {
	return r.Status == RunStatusFailed && r.RetryCount < r.MaxRetries
}

func (r *Run) scheduleRetry(delay time.Duration) {
	r.RetryCount++
	r.Status = RunStatusPending
	next := time.Now().Add(delay)
	r.NextRetryAt = &next
	r.Error = ""
}

// Config holds worker pool settings
type Config struct {
	Workers       int
	QueueSize     int
	JobTimeout    time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultConfig returns the default worker pool settings
func DefaultConfig() Config {
	return Config{
		Workers:       1,
		QueueSize:     16,
		JobTimeout:    10 * time.Minute,
		RetryAttempts: 3,
		RetryDelay:    5 * time.Minute,
	}
}

// Scheduler executes submitted jobs on a fixed pool of workers. Failed runs
// are re-queued after RetryDelay until RetryAttempts is exhausted.
type Scheduler struct {
	config Config
	logger *zap.Logger

	// OnDone, when set, is called after every finished attempt
	OnDone func(*Run)

	runs      chan *Run
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// New creates a scheduler. Zero config fields take their defaults.
func New(config Config, logger *zap.Logger) *Scheduler {
	def := DefaultConfig()
	if config.Workers <= 0 {
		config.Workers = def.Workers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = def.QueueSize
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = def.JobTimeout
	}
	if config.RetryAttempts < 0 {
		config.RetryAttempts = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		config: config,
		logger: logger,
		runs:   make(chan *Run, config.QueueSize),
	}
}

// Start launches the workers
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Scheduler started",
		zap.Int("workers", s.config.Workers),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers, bounded by ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// Submit queues job for execution
func (s *Scheduler) Submit(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}

	run := newRun(job, s.config.RetryAttempts)
	select {
	case s.runs <- run:
		s.logger.Debug("Job submitted", zap.String("job", job.Name()), zap.String("run_id", run.ID.String()))
		return nil
	default:
		return ErrJobQueueFull
	}
}

func (s *Scheduler) worker(ctx context.Context, id int) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case run := <-s.runs:
			s.process(ctx, run, id)
		}
	}
}

func (s *Scheduler) process(ctx context.Context, run *Run, workerID int) {
	if run.NextRetryAt != nil {
		wait := time.Until(*run.NextRetryAt)
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}

	log := s.logger.With(
		zap.Int("worker_id", workerID),
		zap.String("job", run.Job.Name()),
		zap.String("run_id", run.ID.String()),
	)

	run.start()
	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	err := run.Job.Run(jobCtx)
	cancel()

	if err != nil {
		run.fail(err)
		log.Error("Job failed", zap.Int("retry_count", run.RetryCount), zap.Error(err))
		s.done(run)
		if run.ShouldRetry() && ctx.Err() == nil {
			run.scheduleRetry(s.config.RetryDelay)
			select {
			case s.runs <- run:
			default:
				log.Warn("Failed to re-queue job for retry")
			}
		}
		return
	}

	run.complete()
	log.Info("Job completed", zap.Duration("duration", run.CompletedAt.Sub(*run.StartedAt)))
	s.done(run)
}

func (s *Scheduler) done(run *Run) {
	if s.OnDone != nil {
		snapshot := *run
		s.OnDone(&snapshot)
	}
}
