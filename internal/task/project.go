package task

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus represents the state of a project.
type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

// Well-known singleton project names. The Inbox receives quick-added tasks;
// Deep Work anchors timer sessions not tied to any task.
const (
	InboxProjectName    = "Inbox"
	DeepWorkProjectName = "Deep Work"
)

// Project is a named container owning a forest of top-level tasks (stages).
type Project struct {
	ID          string
	Name        string
	Description string
	Status      ProjectStatus
	Tasks       []*Task
	CreatedAt   time.Time
}

// NewProject creates a new Project with validation.
func NewProject(name, description string) (*Project, error) {
	if name == "" {
		return nil, ErrEmptyTitle
	}
	return &Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Status:      ProjectActive,
		CreatedAt:   time.Now(),
	}, nil
}

// ChatMessage is one entry in a project's AI consultation transcript.
type ChatMessage struct {
	ID        int64
	ProjectID string
	Role      string // "user" or "assistant"
	Content   string
	CreatedAt time.Time
}

// Backlog returns the project's unscheduled, non-completed tasks in
// pre-order. This is the stable queue order the auto-scheduler consumes.
func (p *Project) Backlog() []*Task {
	var out []*Task
	Walk(p.Tasks, func(t *Task) bool {
		if !t.IsScheduled() && !t.IsCompleted() {
			out = append(out, t)
		}
		return true
	})
	return out
}

// ScheduledTasks returns the project's scheduled tasks in pre-order.
func (p *Project) ScheduledTasks() []*Task {
	var out []*Task
	Walk(p.Tasks, func(t *Task) bool {
		if t.IsScheduled() {
			out = append(out, t)
		}
		return true
	})
	return out
}
