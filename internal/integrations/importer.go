package integrations

import (
	"context"
	"fmt"
	"time"

	"github.com/mgilabert/focal/internal/task"
)

// Importer materializes external calendar events as scheduled tasks in the
// Inbox project so the auto-scheduler treats their time as occupied.
type Importer struct {
	repo task.Repository
}

// NewImporter creates an Importer.
func NewImporter(repo task.Repository) *Importer {
	return &Importer{repo: repo}
}

// Import fetches events for the range and adds them to the Inbox, skipping
// events whose title and start already exist there. It returns the tasks
// created by this run.
func (im *Importer) Import(ctx context.Context, provider Provider, start, end time.Time) ([]*task.Task, error) {
	events, err := provider.Events(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching %s events: %w", provider.Name(), err)
	}
	if len(events) == 0 {
		return nil, nil
	}

	inbox, err := im.ensureInbox(ctx)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool)
	for _, t := range task.Flatten(inbox.Tasks) {
		if t.ScheduledAt != nil {
			existing[dedupeKey(t.Title, *t.ScheduledAt)] = true
		}
	}

	forest := inbox.Tasks
	var created []*task.Task
	for _, ev := range events {
		title := fmt.Sprintf("[%s] %s", ev.Source, ev.Title)
		if existing[dedupeKey(title, ev.Start)] {
			continue
		}

		t, err := task.New(title, ev.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("creating task for event %q: %w", ev.Title, err)
		}
		at := ev.Start
		t.ScheduledAt = &at

		forest = task.Attach(forest, "", t)
		created = append(created, t)
	}

	if len(created) == 0 {
		return nil, nil
	}

	if err := im.repo.SaveTasks(ctx, inbox.ID, forest); err != nil {
		return nil, fmt.Errorf("persisting imported events: %w", err)
	}

	return created, nil
}

// ensureInbox finds the Inbox project, creating it on first use.
func (im *Importer) ensureInbox(ctx context.Context) (*task.Project, error) {
	projects, err := im.repo.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	for _, p := range projects {
		if p.Name == task.InboxProjectName {
			return p, nil
		}
	}

	inbox, err := task.NewProject(task.InboxProjectName, "Quick-added tasks and imported events")
	if err != nil {
		return nil, err
	}
	if err := im.repo.CreateProject(ctx, inbox); err != nil {
		return nil, fmt.Errorf("creating inbox: %w", err)
	}
	return inbox, nil
}

func dedupeKey(title string, at time.Time) string {
	return fmt.Sprintf("%s@%d", title, at.Unix())
}
