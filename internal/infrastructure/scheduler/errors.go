package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when submitting to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull is returned when the job queue is full
	ErrJobQueueFull = errors.New("job queue is full")

	// ErrInvalidSchedule is returned for a malformed daily schedule
	ErrInvalidSchedule = errors.New("invalid schedule")
)
