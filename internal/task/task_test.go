package task

import (
	"errors"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Run("valid task", func(t *testing.T) {
		tk, err := New("Write tests", 45)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tk.ID == "" {
			t.Error("expected generated ID")
		}
		if tk.Title != "Write tests" {
			t.Errorf("got title %q", tk.Title)
		}
		if tk.Status != StatusTodo {
			t.Errorf("got status %q, want %q", tk.Status, StatusTodo)
		}
		if tk.EstimatedMinutes != 45 {
			t.Errorf("got estimate %d, want 45", tk.EstimatedMinutes)
		}
		if tk.ScheduledAt != nil {
			t.Error("new task should be unscheduled")
		}
		if tk.CreatedAt.IsZero() {
			t.Error("expected CreatedAt to be set")
		}
	})

	t.Run("empty title", func(t *testing.T) {
		_, err := New("", 30)
		if !errors.Is(err, ErrEmptyTitle) {
			t.Errorf("got %v, want ErrEmptyTitle", err)
		}
	})

	t.Run("negative minutes", func(t *testing.T) {
		_, err := New("Test", -5)
		if !errors.Is(err, ErrNegativeMinutes) {
			t.Errorf("got %v, want ErrNegativeMinutes", err)
		}
	})
}

func TestTask_ScheduledDay(t *testing.T) {
	at := time.Date(2025, 1, 6, 14, 30, 0, 0, time.Local)
	tk := &Task{ID: "x", ScheduledAt: &at}

	d, ok := tk.ScheduledDay()
	if !ok {
		t.Fatal("expected scheduled day")
	}
	if !d.Equal(time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local)) {
		t.Errorf("got %v, want midnight of Jan 6", d)
	}

	if _, ok := (&Task{ID: "y"}).ScheduledDay(); ok {
		t.Error("unscheduled task should report no day")
	}
}

func TestTask_StartMinute(t *testing.T) {
	at := time.Date(2025, 1, 6, 9, 45, 0, 0, time.Local)
	tk := &Task{ID: "x", ScheduledAt: &at}

	m, ok := tk.StartMinute()
	if !ok || m != 585 {
		t.Errorf("got (%d, %v), want (585, true)", m, ok)
	}
}

func TestStatus_Valid(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusTodo, true},
		{StatusInProgress, true},
		{StatusCompleted, true},
		{Status("done"), false},
		{Status(""), false},
	}

	for _, tc := range tests {
		if got := tc.status.Valid(); got != tc.want {
			t.Errorf("Valid(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestProject_Backlog(t *testing.T) {
	at := time.Date(2025, 1, 6, 9, 0, 0, 0, time.Local)
	p := &Project{
		ID:   "p1",
		Name: "Test",
		Tasks: []*Task{
			{ID: "stage", Title: "Stage", Status: StatusTodo, Children: []*Task{
				{ID: "scheduled", Status: StatusTodo, ScheduledAt: &at},
				{ID: "open", Status: StatusTodo},
				{ID: "done", Status: StatusCompleted},
			}},
		},
	}

	backlog := p.Backlog()
	if len(backlog) != 2 {
		t.Fatalf("got %d backlog tasks, want 2", len(backlog))
	}
	// Pre-order: container stage first, then its open leaf.
	if backlog[0].ID != "stage" || backlog[1].ID != "open" {
		t.Errorf("backlog order = [%s %s], want [stage open]", backlog[0].ID, backlog[1].ID)
	}
}

func TestForestStats_LeavesOnly(t *testing.T) {
	forest := []*Task{
		{ID: "stage", Status: StatusCompleted, EstimatedMinutes: 999, Children: []*Task{
			{ID: "a", Status: StatusCompleted, EstimatedMinutes: 60},
			{ID: "b", Status: StatusTodo, EstimatedMinutes: 30},
		}},
		{ID: "solo", Status: StatusTodo, EstimatedMinutes: 45},
	}

	s := ForestStats(forest)
	if s.TotalLeaves != 3 {
		t.Errorf("TotalLeaves = %d, want 3", s.TotalLeaves)
	}
	if s.CompletedLeaves != 1 {
		t.Errorf("CompletedLeaves = %d, want 1", s.CompletedLeaves)
	}
	// Container's own 999 minutes must not count.
	if s.TotalMinutes != 135 {
		t.Errorf("TotalMinutes = %d, want 135", s.TotalMinutes)
	}
	if s.CompletedMinutes != 60 {
		t.Errorf("CompletedMinutes = %d, want 60", s.CompletedMinutes)
	}
	if s.CompletionPercent() != 33 {
		t.Errorf("CompletionPercent = %d, want 33", s.CompletionPercent())
	}
}

func TestStats_EmptyForest(t *testing.T) {
	s := ForestStats(nil)
	if s.CompletionPercent() != 0 {
		t.Errorf("CompletionPercent = %d, want 0", s.CompletionPercent())
	}
}
