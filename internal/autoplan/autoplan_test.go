package autoplan

import (
	"context"
	"testing"
	"time"

	"github.com/mgilabert/focal/internal/dateutil"
	"github.com/mgilabert/focal/internal/scheduler"
	"github.com/mgilabert/focal/internal/task"
)

// planRepo is an in-memory repository capturing batch applications.
type planRepo struct {
	projects []*task.Project
	batches  [][]task.ScheduleUpdate
}

func (r *planRepo) CreateProject(_ context.Context, p *task.Project) error {
	r.projects = append(r.projects, p)
	return nil
}

func (r *planRepo) GetProject(_ context.Context, id string) (*task.Project, error) {
	for _, p := range r.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, task.ErrProjectNotFound
}

func (r *planRepo) ListProjects(_ context.Context) ([]*task.Project, error) {
	return r.projects, nil
}

func (r *planRepo) SaveTasks(_ context.Context, projectID string, forest []*task.Task) error {
	for _, p := range r.projects {
		if p.ID == projectID {
			p.Tasks = forest
			return nil
		}
	}
	return task.ErrProjectNotFound
}

func (r *planRepo) ScheduleTask(context.Context, string, time.Time) error { return nil }
func (r *planRepo) UnscheduleTask(context.Context, string) error          { return nil }
func (r *planRepo) SetTaskDuration(context.Context, string, int) error    { return nil }

func (r *planRepo) BatchSchedule(_ context.Context, updates []task.ScheduleUpdate) error {
	r.batches = append(r.batches, updates)
	byID := make(map[string]time.Time, len(updates))
	for _, u := range updates {
		byID[u.TaskID] = u.At
	}
	for _, p := range r.projects {
		task.Walk(p.Tasks, func(t *task.Task) bool {
			if at, ok := byID[t.ID]; ok {
				stamp := at
				t.ScheduledAt = &stamp
			}
			return true
		})
	}
	return nil
}

func (r *planRepo) ListScheduledInRange(_ context.Context, start, end time.Time) ([]*task.Task, error) {
	from := dateutil.TruncateToDay(start)
	until := dateutil.TruncateToDay(end).AddDate(0, 0, 1)
	var out []*task.Task
	for _, p := range r.projects {
		task.Walk(p.Tasks, func(t *task.Task) bool {
			if t.ScheduledAt != nil && !t.ScheduledAt.Before(from) && t.ScheduledAt.Before(until) {
				out = append(out, t)
			}
			return true
		})
	}
	return out, nil
}

func (r *planRepo) AppendChatMessage(context.Context, *task.ChatMessage) error { return nil }
func (r *planRepo) ListChatMessages(context.Context, string) ([]*task.ChatMessage, error) {
	return nil, nil
}
func (r *planRepo) Close() error { return nil }

func mustTask(t *testing.T, title string, minutes int) *task.Task {
	t.Helper()
	tsk, err := task.New(title, minutes)
	if err != nil {
		t.Fatalf("task.New failed: %v", err)
	}
	return tsk
}

func mustProject(t *testing.T, name string, tasks ...*task.Task) *task.Project {
	t.Helper()
	p, err := task.NewProject(name, "")
	if err != nil {
		t.Fatalf("task.NewProject failed: %v", err)
	}
	p.Tasks = tasks
	return p
}

func TestRun_PlacesBacklogInQueueOrder(t *testing.T) {
	first := mustProject(t, "First",
		mustTask(t, "A", 60),
		mustTask(t, "B", 30),
	)
	second := mustProject(t, "Second", mustTask(t, "C", 45))
	repo := &planRepo{projects: []*task.Project{first, second}}

	runner := NewRunner(repo, scheduler.DefaultWindow())
	monday := time.Date(2025, 1, 6, 8, 15, 0, 0, time.UTC)

	result, err := runner.Run(context.Background(), monday, 7)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Placed) != 3 {
		t.Fatalf("placed = %d, want 3", len(result.Placed))
	}
	if result.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", result.Remaining)
	}

	// Queue order fills the day front to back: A 09:00, B 10:00, C 10:30.
	wantHours := []struct {
		h, m int
	}{{9, 0}, {10, 0}, {10, 30}}
	for i, p := range result.Placed {
		if p.At.Hour() != wantHours[i].h || p.At.Minute() != wantHours[i].m {
			t.Errorf("placement %d at %02d:%02d, want %02d:%02d",
				i, p.At.Hour(), p.At.Minute(), wantHours[i].h, wantHours[i].m)
		}
	}

	if len(repo.batches) != 1 {
		t.Errorf("BatchSchedule calls = %d, want 1", len(repo.batches))
	}
}

func TestRun_RespectsExistingSchedule(t *testing.T) {
	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	busy := mustTask(t, "Standing meeting", 30)
	at := monday.Add(9 * time.Hour)
	busy.ScheduledAt = &at

	todo := mustTask(t, "Focus work", 30)
	repo := &planRepo{projects: []*task.Project{mustProject(t, "Work", busy, todo)}}

	runner := NewRunner(repo, scheduler.DefaultWindow())
	result, err := runner.Run(context.Background(), monday, 7)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Placed) != 1 {
		t.Fatalf("placed = %d, want 1", len(result.Placed))
	}
	got := result.Placed[0].At
	if got.Hour() != 9 || got.Minute() != 30 {
		t.Errorf("placed at %02d:%02d, want 09:30", got.Hour(), got.Minute())
	}
}

func TestRun_ReportsUnplacedBacklog(t *testing.T) {
	repo := &planRepo{projects: []*task.Project{mustProject(t, "Work",
		mustTask(t, "Too big", 600),
		mustTask(t, "Fits", 30),
	)}}

	runner := NewRunner(repo, scheduler.DefaultWindow())
	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	result, err := runner.Run(context.Background(), monday, 1)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Placed) != 1 {
		t.Fatalf("placed = %d, want 1", len(result.Placed))
	}
	if result.Remaining != 1 {
		t.Errorf("Remaining = %d, want 1", result.Remaining)
	}
}

func TestRun_CanceledContextAppliesNothing(t *testing.T) {
	repo := &planRepo{projects: []*task.Project{mustProject(t, "Work",
		mustTask(t, "A", 30),
	)}}

	runner := NewRunner(repo, scheduler.DefaultWindow())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	if _, err := runner.Run(ctx, monday, 7); err == nil {
		t.Fatal("expected error from canceled context")
	}
	if len(repo.batches) != 0 {
		t.Errorf("BatchSchedule calls = %d, want 0", len(repo.batches))
	}
}

func TestRun_EmptyHorizon(t *testing.T) {
	repo := &planRepo{projects: []*task.Project{mustProject(t, "Work",
		mustTask(t, "A", 30),
	)}}

	runner := NewRunner(repo, scheduler.DefaultWindow())
	result, err := runner.Run(context.Background(), time.Now(), 0)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Placed) != 0 || result.Remaining != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
}

func TestRun_Deterministic(t *testing.T) {
	build := func() *planRepo {
		return &planRepo{projects: []*task.Project{mustProject(t, "Work",
			mustTask(t, "A", 60),
			mustTask(t, "B", 45),
			mustTask(t, "C", 90),
		)}}
	}

	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	first, err := NewRunner(build(), scheduler.DefaultWindow()).Run(context.Background(), monday, 7)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	second, err := NewRunner(build(), scheduler.DefaultWindow()).Run(context.Background(), monday, 7)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(first.Placed) != len(second.Placed) {
		t.Fatalf("placed %d vs %d", len(first.Placed), len(second.Placed))
	}
	for i := range first.Placed {
		if !first.Placed[i].At.Equal(second.Placed[i].At) {
			t.Errorf("placement %d differs: %v vs %v", i, first.Placed[i].At, second.Placed[i].At)
		}
	}
}
