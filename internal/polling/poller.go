// Package polling drives the status loop for asynchronous generation tasks.
package polling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/testforge/backend/internal/models"
	"github.com/testforge/backend/internal/upstream"
)

// Default poll budget. Both values come from config in production.
const (
	DefaultInterval    = 3 * time.Second
	DefaultMaxAttempts = 100
)

// TimeoutError indicates the poll budget was exhausted before the task
// reached a terminal state. The upstream task may still be running.
type TimeoutError struct {
	TaskID   string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("task %s: no terminal state after %d attempts", e.TaskID, e.Attempts)
}

// StatusFunc queries the current state of a task.
type StatusFunc func(ctx context.Context, taskID string) (*models.TaskStatus, error)

// Poller repeatedly queries a task's status until it terminates or the
// attempt budget runs out. Queries are strictly sequential: the next tick
// is scheduled only after the previous response has been handled, so slow
// responses stretch the effective interval instead of overlapping.
type Poller struct {
	status      StatusFunc
	interval    time.Duration
	maxAttempts int
}

// New creates a Poller. Non-positive interval or maxAttempts fall back to
// the defaults.
func New(status StatusFunc, interval time.Duration, maxAttempts int) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Poller{
		status:      status,
		interval:    interval,
		maxAttempts: maxAttempts,
	}
}

// Run polls until the task completes, fails, times out, or ctx is
// cancelled. On completion it returns the terminal status; a task-level
// failure is returned as *upstream.TaskError. A pending response and a
// transport failure on the status query each consume one attempt.
func (p *Poller) Run(ctx context.Context, taskID string) (*models.TaskStatus, error) {
	attempts := 0
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}

		st, err := p.status(ctx, taskID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			var transErr *upstream.TransportError
			if !errors.As(err, &transErr) {
				// Protocol or remote errors mean the contract is broken;
				// retrying will not help.
				return nil, err
			}
			// Transient transport failure, keep the loop alive.
		} else {
			switch st.State {
			case models.TaskStateComplete:
				return st, nil
			case models.TaskStateError:
				return st, &upstream.TaskError{TaskID: taskID, Message: st.Error}
			}
		}

		attempts++
		if attempts >= p.maxAttempts {
			return nil, &TimeoutError{TaskID: taskID, Attempts: attempts}
		}

		// Rescheduled only after the response was handled, never before.
		timer.Reset(p.interval)
	}
}
