// Package task defines the core domain types for focal.
package task

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Validation errors.
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrInvalidStatus   = errors.New("status must be 'todo', 'in_progress' or 'completed'")
	ErrNegativeMinutes = errors.New("estimated minutes cannot be negative")
)

// Domain errors.
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrProjectNotFound = errors.New("project not found")
)

// Status represents the state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// Task is a node in a project's task tree. A task with children acts as a
// container (a "stage"); only leaf tasks count toward progress statistics.
type Task struct {
	ID               string
	Title            string
	Status           Status
	EstimatedMinutes int
	ScheduledAt      *time.Time // nil means unscheduled (backlog)
	Children         []*Task
	CreatedAt        time.Time
}

// New creates a new Task with validation.
func New(title string, estimatedMinutes int) (*Task, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if estimatedMinutes < 0 {
		return nil, ErrNegativeMinutes
	}
	return &Task{
		ID:               uuid.NewString(),
		Title:            title,
		Status:           StatusTodo,
		EstimatedMinutes: estimatedMinutes,
		CreatedAt:        time.Now(),
	}, nil
}

// IsCompleted returns true if the task is completed.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// IsScheduled returns true if the task has a scheduled instant.
func (t *Task) IsScheduled() bool {
	return t.ScheduledAt != nil
}

// IsLeaf returns true if the task has no children.
func (t *Task) IsLeaf() bool {
	return len(t.Children) == 0
}

// ScheduledDay returns the calendar day of the scheduled instant, truncated
// to midnight, and false if the task is unscheduled.
func (t *Task) ScheduledDay() (time.Time, bool) {
	if t.ScheduledAt == nil {
		return time.Time{}, false
	}
	at := *t.ScheduledAt
	return time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location()), true
}

// StartMinute returns the minute-of-day of the scheduled instant, and false
// if the task is unscheduled.
func (t *Task) StartMinute() (int, bool) {
	if t.ScheduledAt == nil {
		return 0, false
	}
	return t.ScheduledAt.Hour()*60 + t.ScheduledAt.Minute(), true
}
