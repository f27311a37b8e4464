// Package session defines focus-session history records and their
// aggregations. Sessions are append-only: written once when a focus block
// ends, never mutated or deleted.
package session

import (
	"context"
	"errors"
	"time"
)

// Validation errors.
var (
	ErrEmptyProject  = errors.New("session must reference a project")
	ErrEndBeforeStart = errors.New("session end must be after start")
)

// Session records one completed or interrupted focus block.
type Session struct {
	ID              int64
	ProjectID       string
	TaskID          string // empty for unstructured deep-work sessions
	StartedAt       time.Time
	EndedAt         time.Time
	PlannedMinutes  int
	ActualMinutes   int // floored at 1
	Completed       bool
	InterruptReason string // empty unless interrupted
}

// New creates a session record from a finished focus block. Actual minutes
// are derived from wall-clock start/end and floored at 1.
func New(projectID, taskID string, start, end time.Time, plannedMinutes int, completed bool, interruptReason string) (*Session, error) {
	if projectID == "" {
		return nil, ErrEmptyProject
	}
	if !end.After(start) {
		return nil, ErrEndBeforeStart
	}

	actual := int(end.Sub(start).Minutes())
	if actual < 1 {
		actual = 1
	}

	return &Session{
		ProjectID:       projectID,
		TaskID:          taskID,
		StartedAt:       start,
		EndedAt:         end,
		PlannedMinutes:  plannedMinutes,
		ActualMinutes:   actual,
		Completed:       completed,
		InterruptReason: interruptReason,
	}, nil
}

// Store defines the append-only storage interface for sessions.
type Store interface {
	// AppendSession records a finished session.
	AppendSession(ctx context.Context, s *Session) error

	// ListSessionsInRange returns sessions whose start falls within
	// [start, end] inclusive, in start order.
	ListSessionsInRange(ctx context.Context, start, end time.Time) ([]*Session, error)
}
