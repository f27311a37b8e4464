package task

import (
	"context"
	"time"
)

// ScheduleUpdate represents one task placement for atomic batch application.
type ScheduleUpdate struct {
	TaskID string
	At     time.Time
}

// Repository defines the storage interface for projects and their task trees.
type Repository interface {
	// CreateProject adds a new project together with its task forest.
	CreateProject(ctx context.Context, p *Project) error

	// GetProject retrieves a project by ID with its task forest loaded.
	// Returns ErrProjectNotFound if no such project exists.
	GetProject(ctx context.Context, id string) (*Project, error)

	// ListProjects returns all projects in creation order, task forests
	// loaded. This order is the auto-scheduler's project iteration order.
	ListProjects(ctx context.Context) ([]*Project, error)

	// SaveTasks replaces a project's entire task forest with the given
	// snapshot atomically.
	SaveTasks(ctx context.Context, projectID string, forest []*Task) error

	// ScheduleTask sets a task's scheduled instant (unconditional overwrite).
	ScheduleTask(ctx context.Context, taskID string, at time.Time) error

	// UnscheduleTask clears a task's scheduled instant. Unscheduling an
	// already-unscheduled task is a no-op.
	UnscheduleTask(ctx context.Context, taskID string) error

	// SetTaskDuration updates a task's estimated minutes.
	SetTaskDuration(ctx context.Context, taskID string, minutes int) error

	// BatchSchedule applies all placements in a single transaction; readers
	// never observe a partially applied run.
	BatchSchedule(ctx context.Context, updates []ScheduleUpdate) error

	// ListScheduledInRange returns all tasks across all projects whose
	// scheduled day falls within [start, end] inclusive.
	ListScheduledInRange(ctx context.Context, start, end time.Time) ([]*Task, error)

	// AppendChatMessage records one entry of a project's AI transcript.
	AppendChatMessage(ctx context.Context, msg *ChatMessage) error

	// ListChatMessages returns a project's transcript in insertion order.
	ListChatMessages(ctx context.Context, projectID string) ([]*ChatMessage, error)

	// Close releases any resources held by the repository.
	Close() error
}
