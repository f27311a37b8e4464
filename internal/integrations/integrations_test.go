package integrations

import (
	"context"
	"testing"
	"time"

	"github.com/mgilabert/focal/internal/task"
)

func TestNewProvider(t *testing.T) {
	for _, kind := range []string{"gcal", "google", "outlook", "Microsoft"} {
		p, err := NewProvider(kind)
		if err != nil {
			t.Errorf("NewProvider(%q) error = %v", kind, err)
			continue
		}
		if p.Name() == "" {
			t.Errorf("NewProvider(%q) has empty name", kind)
		}
	}

	if _, err := NewProvider("caldav"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestMockProviderEvents(t *testing.T) {
	p, err := NewProvider("gcal")
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}

	// Monday through Sunday.
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	events, err := p.Events(context.Background(), start, end)
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}

	first := events[0]
	if first.Title != "Team sync" {
		t.Errorf("Title = %q, want Team sync", first.Title)
	}
	if first.Start.Weekday() != time.Monday || first.Start.Hour() != 10 {
		t.Errorf("Start = %v, want Monday 10:00", first.Start)
	}
	if first.Source != "gcal" {
		t.Errorf("Source = %q, want gcal", first.Source)
	}

	// A two-week range doubles the recurrences.
	events, err = p.Events(context.Background(), start, start.AddDate(0, 0, 14))
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 6 {
		t.Errorf("events across two weeks = %d, want 6", len(events))
	}
}

func TestMockProviderHonorsContext(t *testing.T) {
	p, err := NewProvider("outlook")
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	if _, err := p.Events(ctx, start, start.AddDate(0, 0, 7)); err != context.Canceled {
		t.Errorf("Events error = %v, want context.Canceled", err)
	}
}

// importRepo tracks SaveTasks calls for importer tests.
type importRepo struct {
	projects []*task.Project
	saves    int
}

func (r *importRepo) CreateProject(_ context.Context, p *task.Project) error {
	r.projects = append(r.projects, p)
	return nil
}

func (r *importRepo) GetProject(_ context.Context, id string) (*task.Project, error) {
	for _, p := range r.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, task.ErrProjectNotFound
}

func (r *importRepo) ListProjects(_ context.Context) ([]*task.Project, error) {
	return r.projects, nil
}

func (r *importRepo) SaveTasks(_ context.Context, projectID string, forest []*task.Task) error {
	r.saves++
	for _, p := range r.projects {
		if p.ID == projectID {
			p.Tasks = forest
			return nil
		}
	}
	return task.ErrProjectNotFound
}

func (r *importRepo) ScheduleTask(context.Context, string, time.Time) error { return nil }
func (r *importRepo) UnscheduleTask(context.Context, string) error          { return nil }
func (r *importRepo) SetTaskDuration(context.Context, string, int) error    { return nil }
func (r *importRepo) BatchSchedule(context.Context, []task.ScheduleUpdate) error {
	return nil
}
func (r *importRepo) ListScheduledInRange(context.Context, time.Time, time.Time) ([]*task.Task, error) {
	return nil, nil
}
func (r *importRepo) AppendChatMessage(context.Context, *task.ChatMessage) error { return nil }
func (r *importRepo) ListChatMessages(context.Context, string) ([]*task.ChatMessage, error) {
	return nil, nil
}
func (r *importRepo) Close() error { return nil }

func TestImport_CreatesInboxAndTasks(t *testing.T) {
	repo := &importRepo{}
	im := NewImporter(repo)

	p, err := NewProvider("gcal")
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	created, err := im.Import(context.Background(), p, start, start.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("created = %d, want 3", len(created))
	}

	if len(repo.projects) != 1 || repo.projects[0].Name != task.InboxProjectName {
		t.Fatalf("inbox not created: %+v", repo.projects)
	}

	inbox := repo.projects[0]
	if len(inbox.Tasks) != 3 {
		t.Fatalf("inbox tasks = %d, want 3", len(inbox.Tasks))
	}
	first := inbox.Tasks[0]
	if first.Title != "[gcal] Team sync" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.ScheduledAt == nil {
		t.Error("imported event should be scheduled")
	}
	if first.EstimatedMinutes != 30 {
		t.Errorf("EstimatedMinutes = %d, want 30", first.EstimatedMinutes)
	}
}

func TestImport_SkipsDuplicates(t *testing.T) {
	repo := &importRepo{}
	im := NewImporter(repo)

	p, err := NewProvider("gcal")
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	if _, err := im.Import(context.Background(), p, start, end); err != nil {
		t.Fatalf("first Import failed: %v", err)
	}
	created, err := im.Import(context.Background(), p, start, end)
	if err != nil {
		t.Fatalf("second Import failed: %v", err)
	}
	if created != nil {
		t.Errorf("second import created %d tasks, want none", len(created))
	}
	if repo.saves != 1 {
		t.Errorf("SaveTasks calls = %d, want 1", repo.saves)
	}
}
