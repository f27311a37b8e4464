// Package timer implements the focus-timer state machine. The timer holds
// no goroutines and does not sleep; callers drive it from their own tick
// source and read the remaining time through the injected clock.
package timer

import (
	"errors"
	"time"

	"github.com/mgilabert/focal/internal/session"
)

// State is the timer lifecycle phase.
type State int

const (
	Idle State = iota
	Running
	Paused
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

var (
	ErrNotRunning     = errors.New("timer is not running")
	ErrAlreadyRunning = errors.New("timer is already running")
	ErrNotStarted     = errors.New("timer has not been started")
	ErrInvalidLength  = errors.New("timer length must be positive")
)

// Timer counts down a planned focus block against a project, and
// optionally a specific task. It only observes time through now, so
// tests can drive it with a fake clock.
type Timer struct {
	projectID string
	taskID    string
	planned   time.Duration

	state     State
	startedAt time.Time
	// elapsed accumulated across pause boundaries, excluding the
	// current running stretch.
	banked    time.Duration
	resumedAt time.Time

	now func() time.Time
}

// New creates an idle timer. A nil now defaults to time.Now.
func New(now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{now: now}
}

// State returns the current lifecycle phase.
func (t *Timer) State() State { return t.state }

// ProjectID returns the project the current block is attributed to.
func (t *Timer) ProjectID() string { return t.projectID }

// TaskID returns the task the current block is attributed to, if any.
func (t *Timer) TaskID() string { return t.taskID }

// Planned returns the planned block length.
func (t *Timer) Planned() time.Duration { return t.planned }

// Start begins a new countdown. taskID may be empty for unstructured
// deep-work blocks.
func (t *Timer) Start(projectID, taskID string, length time.Duration) error {
	if t.state == Running || t.state == Paused {
		return ErrAlreadyRunning
	}
	if projectID == "" {
		return session.ErrEmptyProject
	}
	if length <= 0 {
		return ErrInvalidLength
	}

	now := t.now()
	t.projectID = projectID
	t.taskID = taskID
	t.planned = length
	t.startedAt = now
	t.resumedAt = now
	t.banked = 0
	t.state = Running
	return nil
}

// Pause freezes the countdown.
func (t *Timer) Pause() error {
	if t.state != Running {
		return ErrNotRunning
	}
	t.banked += t.now().Sub(t.resumedAt)
	t.state = Paused
	return nil
}

// Resume continues a paused countdown.
func (t *Timer) Resume() error {
	if t.state != Paused {
		return ErrNotRunning
	}
	t.resumedAt = t.now()
	t.state = Running
	return nil
}

// Elapsed returns focused time so far, excluding paused stretches.
func (t *Timer) Elapsed() time.Duration {
	switch t.state {
	case Running, Finished:
		return t.banked + t.now().Sub(t.resumedAt)
	case Paused:
		return t.banked
	default:
		return 0
	}
}

// Remaining returns the time left on the countdown, floored at zero.
func (t *Timer) Remaining() time.Duration {
	left := t.planned - t.Elapsed()
	if left < 0 {
		return 0
	}
	return left
}

// Done reports whether the countdown has run out of time. The timer does
// not transition on its own; the caller observes Done and calls Complete.
func (t *Timer) Done() bool {
	return (t.state == Running || t.state == Paused) && t.Remaining() == 0
}

// Complete ends the block as finished and returns its session record.
// The timer returns to Idle.
func (t *Timer) Complete() (*session.Session, error) {
	return t.finish(true, "")
}

// Interrupt ends the block early with a reason and returns its session
// record. The timer returns to Idle.
func (t *Timer) Interrupt(reason string) (*session.Session, error) {
	return t.finish(false, reason)
}

func (t *Timer) finish(completed bool, reason string) (*session.Session, error) {
	if t.state != Running && t.state != Paused {
		return nil, ErrNotStarted
	}
	if t.state == Running {
		t.banked += t.now().Sub(t.resumedAt)
	}

	focused := t.banked
	if focused <= 0 {
		// Interrupted within the same clock instant it started.
		focused = time.Second
	}

	end := t.startedAt.Add(focused)
	s, err := session.New(t.projectID, t.taskID, t.startedAt, end,
		int(t.planned.Minutes()), completed, reason)
	if err != nil {
		return nil, err
	}

	*t = Timer{now: t.now}
	return s, nil
}
