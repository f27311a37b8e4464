package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mgilabert/focal/internal/session"
	"github.com/mgilabert/focal/internal/task"
)

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}

func newTask(t *testing.T, title string, minutes int) *task.Task {
	t.Helper()
	tsk, err := task.New(title, minutes)
	if err != nil {
		t.Fatalf("task.New failed: %v", err)
	}
	return tsk
}

func newProject(t *testing.T, name string, tasks ...*task.Task) *task.Project {
	t.Helper()
	p, err := task.NewProject(name, "")
	if err != nil {
		t.Fatalf("task.NewProject failed: %v", err)
	}
	p.Tasks = tasks
	return p
}

func TestCreateAndGetProject(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	stage := newTask(t, "Research", 0)
	stage.Children = []*task.Task{
		newTask(t, "Read papers", 90),
		newTask(t, "Take notes", 45),
	}
	p := newProject(t, "Thesis", stage, newTask(t, "Write intro", 120))

	if err := repo.CreateProject(ctx, p); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	got, err := repo.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if got.Name != "Thesis" {
		t.Errorf("Name = %q, want Thesis", got.Name)
	}
	if len(got.Tasks) != 2 {
		t.Fatalf("top-level tasks = %d, want 2", len(got.Tasks))
	}
	if got.Tasks[0].Title != "Research" {
		t.Errorf("first task = %q, want Research", got.Tasks[0].Title)
	}
	children := got.Tasks[0].Children
	if len(children) != 2 || children[0].Title != "Read papers" || children[1].Title != "Take notes" {
		t.Errorf("children out of order: %+v", children)
	}
	if children[0].EstimatedMinutes != 90 {
		t.Errorf("EstimatedMinutes = %d, want 90", children[0].EstimatedMinutes)
	}
}

func TestGetProject_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetProject(context.Background(), "nope")
	if !errors.Is(err, task.ErrProjectNotFound) {
		t.Errorf("GetProject error = %v, want ErrProjectNotFound", err)
	}
}

func TestListProjects_CreationOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	names := []string{"Inbox", "Thesis", "Side project"}
	for _, name := range names {
		if err := repo.CreateProject(ctx, newProject(t, name)); err != nil {
			t.Fatalf("CreateProject(%s) failed: %v", name, err)
		}
	}

	projects, err := repo.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != 3 {
		t.Fatalf("projects = %d, want 3", len(projects))
	}
	for i, p := range projects {
		if p.Name != names[i] {
			t.Errorf("projects[%d] = %q, want %q", i, p.Name, names[i])
		}
	}
}

func TestSaveTasks_ReplacesForest(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p := newProject(t, "Thesis", newTask(t, "Old task", 30))
	if err := repo.CreateProject(ctx, p); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	replacement := []*task.Task{
		newTask(t, "New stage", 0),
		newTask(t, "New task", 60),
	}
	if err := repo.SaveTasks(ctx, p.ID, replacement); err != nil {
		t.Fatalf("SaveTasks failed: %v", err)
	}

	got, err := repo.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if len(got.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(got.Tasks))
	}
	if got.Tasks[0].Title != "New stage" || got.Tasks[1].Title != "New task" {
		t.Errorf("forest not replaced: %q, %q", got.Tasks[0].Title, got.Tasks[1].Title)
	}
}

func TestSaveTasks_UnknownProject(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.SaveTasks(context.Background(), "nope", nil)
	if !errors.Is(err, task.ErrProjectNotFound) {
		t.Errorf("SaveTasks error = %v, want ErrProjectNotFound", err)
	}
}

func TestScheduleAndUnscheduleTask(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tsk := newTask(t, "Write intro", 60)
	p := newProject(t, "Thesis", tsk)
	if err := repo.CreateProject(ctx, p); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	at := time.Date(2025, 1, 6, 9, 30, 0, 0, time.Local)
	if err := repo.ScheduleTask(ctx, tsk.ID, at); err != nil {
		t.Fatalf("ScheduleTask failed: %v", err)
	}

	got, err := repo.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if got.Tasks[0].ScheduledAt == nil {
		t.Fatal("ScheduledAt = nil after ScheduleTask")
	}
	if !got.Tasks[0].ScheduledAt.Equal(at) {
		t.Errorf("ScheduledAt = %v, want %v", got.Tasks[0].ScheduledAt, at)
	}

	// Overwrite with a new instant.
	later := at.Add(2 * time.Hour)
	if err := repo.ScheduleTask(ctx, tsk.ID, later); err != nil {
		t.Fatalf("ScheduleTask overwrite failed: %v", err)
	}

	if err := repo.UnscheduleTask(ctx, tsk.ID); err != nil {
		t.Fatalf("UnscheduleTask failed: %v", err)
	}
	// Unscheduling again is a no-op.
	if err := repo.UnscheduleTask(ctx, tsk.ID); err != nil {
		t.Fatalf("repeat UnscheduleTask failed: %v", err)
	}

	got, err = repo.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if got.Tasks[0].ScheduledAt != nil {
		t.Errorf("ScheduledAt = %v after UnscheduleTask, want nil", got.Tasks[0].ScheduledAt)
	}
}

func TestScheduleTask_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.ScheduleTask(context.Background(), "nope", time.Now())
	if !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("ScheduleTask error = %v, want ErrTaskNotFound", err)
	}
}

func TestSetTaskDuration(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tsk := newTask(t, "Write intro", 60)
	p := newProject(t, "Thesis", tsk)
	if err := repo.CreateProject(ctx, p); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	if err := repo.SetTaskDuration(ctx, tsk.ID, 45); err != nil {
		t.Fatalf("SetTaskDuration failed: %v", err)
	}
	if err := repo.SetTaskDuration(ctx, tsk.ID, -5); !errors.Is(err, task.ErrNegativeMinutes) {
		t.Errorf("SetTaskDuration(-5) = %v, want ErrNegativeMinutes", err)
	}

	got, err := repo.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if got.Tasks[0].EstimatedMinutes != 45 {
		t.Errorf("EstimatedMinutes = %d, want 45", got.Tasks[0].EstimatedMinutes)
	}
}

func TestBatchSchedule_Atomic(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a := newTask(t, "A", 30)
	b := newTask(t, "B", 30)
	p := newProject(t, "Thesis", a, b)
	if err := repo.CreateProject(ctx, p); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local)
	updates := []task.ScheduleUpdate{
		{TaskID: a.ID, At: day.Add(9 * time.Hour)},
		{TaskID: "missing", At: day.Add(10 * time.Hour)},
		{TaskID: b.ID, At: day.Add(11 * time.Hour)},
	}

	err := repo.BatchSchedule(ctx, updates)
	if !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("BatchSchedule error = %v, want ErrTaskNotFound", err)
	}

	// The failed batch must leave nothing applied.
	got, err := repo.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	for _, tsk := range got.Tasks {
		if tsk.ScheduledAt != nil {
			t.Errorf("task %q scheduled after failed batch", tsk.Title)
		}
	}

	// A clean batch applies fully.
	err = repo.BatchSchedule(ctx, []task.ScheduleUpdate{
		{TaskID: a.ID, At: day.Add(9 * time.Hour)},
		{TaskID: b.ID, At: day.Add(11 * time.Hour)},
	})
	if err != nil {
		t.Fatalf("BatchSchedule failed: %v", err)
	}

	got, err = repo.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	for _, tsk := range got.Tasks {
		if tsk.ScheduledAt == nil {
			t.Errorf("task %q unscheduled after batch", tsk.Title)
		}
	}
}

func TestListScheduledInRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a := newTask(t, "Monday task", 30)
	b := newTask(t, "Tuesday task", 30)
	c := newTask(t, "Next week task", 30)
	d := newTask(t, "Backlog task", 30)
	p := newProject(t, "Thesis", a, b, c, d)
	if err := repo.CreateProject(ctx, p); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local)
	err := repo.BatchSchedule(ctx, []task.ScheduleUpdate{
		{TaskID: b.ID, At: monday.AddDate(0, 0, 1).Add(14 * time.Hour)},
		{TaskID: a.ID, At: monday.Add(9 * time.Hour)},
		{TaskID: c.ID, At: monday.AddDate(0, 0, 9).Add(9 * time.Hour)},
	})
	if err != nil {
		t.Fatalf("BatchSchedule failed: %v", err)
	}

	got, err := repo.ListScheduledInRange(ctx, monday, monday.AddDate(0, 0, 6))
	if err != nil {
		t.Fatalf("ListScheduledInRange failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("tasks in range = %d, want 2", len(got))
	}
	// Ordered by scheduled instant regardless of insert order.
	if got[0].Title != "Monday task" || got[1].Title != "Tuesday task" {
		t.Errorf("order = %q, %q", got[0].Title, got[1].Title)
	}
}

func TestChatMessages(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p := newProject(t, "Thesis")
	if err := repo.CreateProject(ctx, p); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	msgs := []*task.ChatMessage{
		{ProjectID: p.ID, Role: "user", Content: "Plan my thesis", CreatedAt: time.Now()},
		{ProjectID: p.ID, Role: "assistant", Content: "Here is a draft", CreatedAt: time.Now()},
	}
	for _, m := range msgs {
		if err := repo.AppendChatMessage(ctx, m); err != nil {
			t.Fatalf("AppendChatMessage failed: %v", err)
		}
		if m.ID == 0 {
			t.Error("expected ID to be set after insert")
		}
	}

	got, err := repo.ListChatMessages(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListChatMessages failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("messages = %d, want 2", len(got))
	}
	if got[0].Role != "user" || got[1].Role != "assistant" {
		t.Errorf("order = %q, %q", got[0].Role, got[1].Role)
	}
}

func TestSessions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.Local)
	s1, err := session.New("p1", "t1", start, start.Add(25*time.Minute), 25, true, "")
	if err != nil {
		t.Fatalf("session.New failed: %v", err)
	}
	s2, err := session.New("p1", "", start.Add(time.Hour), start.Add(70*time.Minute), 25, false, "doorbell")
	if err != nil {
		t.Fatalf("session.New failed: %v", err)
	}
	s3, err := session.New("p1", "", start.AddDate(0, 0, 10), start.AddDate(0, 0, 10).Add(time.Hour), 60, true, "")
	if err != nil {
		t.Fatalf("session.New failed: %v", err)
	}

	for _, s := range []*session.Session{s1, s2, s3} {
		if err := repo.AppendSession(ctx, s); err != nil {
			t.Fatalf("AppendSession failed: %v", err)
		}
		if s.ID == 0 {
			t.Error("expected ID to be set after insert")
		}
	}

	got, err := repo.ListSessionsInRange(ctx, start, start.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("ListSessionsInRange failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("sessions in range = %d, want 2", len(got))
	}
	if !got[0].Completed {
		t.Error("first session should be completed")
	}
	if got[1].InterruptReason != "doorbell" {
		t.Errorf("InterruptReason = %q, want doorbell", got[1].InterruptReason)
	}
	if !got[0].StartedAt.Equal(start) {
		t.Errorf("StartedAt = %v, want %v", got[0].StartedAt, start)
	}
}
