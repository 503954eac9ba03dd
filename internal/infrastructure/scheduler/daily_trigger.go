package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ParseDailySchedule reads the minute and hour fields of a cron expression
// such as "30 3 * * *". The remaining fields are ignored. An empty
// expression means 03:00.
func ParseDailySchedule(expr string) (hour, minute int, err error) {
	parts := strings.Fields(expr)
	if len(parts) == 0 {
		return 3, 0, nil
	}
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSchedule, expr)
	}

	minute, err = strconv.Atoi(parts[0])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: minute must be 0-59, got %q", ErrInvalidSchedule, parts[0])
	}
	hour, err = strconv.Atoi(parts[1])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour must be 0-23, got %q", ErrInvalidSchedule, parts[1])
	}
	return hour, minute, nil
}

// DailyTrigger submits its jobs to a Scheduler once per day at Hour:Minute
// local time. The clock is polled every CheckInterval.
type DailyTrigger struct {
	Hour          int
	Minute        int
	CheckInterval time.Duration

	scheduler *Scheduler
	jobs      []Job
	logger    *zap.Logger
	now       func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewDailyTrigger creates a trigger for jobs
func NewDailyTrigger(s *Scheduler, hour, minute int, logger *zap.Logger, jobs ...Job) *DailyTrigger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DailyTrigger{
		Hour:          hour,
		Minute:        minute,
		CheckInterval: time.Minute,
		scheduler:     s,
		jobs:          jobs,
		logger:        logger,
		now:           time.Now,
	}
}

// Start begins polling the clock
func (t *DailyTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isRunning {
		return nil
	}
	t.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.wg.Add(1)
	go t.loop(ctx)

	t.logger.Info("Daily trigger started",
		zap.String("at", fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)),
		zap.Int("jobs", len(t.jobs)),
	)
	return nil
}

// Stop ends polling and waits for the loop to exit
func (t *DailyTrigger) Stop() {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return
	}
	t.isRunning = false
	t.cancel()
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *DailyTrigger) loop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.CheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Tick()
		}
	}
}

// Tick submits the jobs when the schedule is due and they have not run yet
// today. It reports whether anything was submitted.
func (t *DailyTrigger) Tick() bool {
	now := t.now()
	today := now.Format(time.DateOnly)

	t.mu.Lock()
	if t.lastRunDate == today || now.Hour() != t.Hour || now.Minute() != t.Minute {
		t.mu.Unlock()
		return false
	}
	t.lastRunDate = today
	t.mu.Unlock()

	for _, job := range t.jobs {
		if err := t.scheduler.Submit(job); err != nil {
			t.logger.Error("Failed to submit scheduled job", zap.String("job", job.Name()), zap.Error(err))
		}
	}
	return true
}
