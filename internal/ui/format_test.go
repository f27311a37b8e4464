package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/mgilabert/focal/internal/task"
)

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{15, "15m"},
		{59, "59m"},
		{60, "1h"},
		{90, "1h30m"},
		{125, "2h05m"},
		{480, "8h"},
	}

	for _, tt := range tests {
		if got := formatMinutes(tt.minutes); got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestStatusSymbol(t *testing.T) {
	if statusSymbol(task.StatusTodo) != "○" {
		t.Error("todo symbol")
	}
	if statusSymbol(task.StatusInProgress) != "◐" {
		t.Error("in_progress symbol")
	}
	if statusSymbol(task.StatusCompleted) != "●" {
		t.Error("completed symbol")
	}
}

func TestFormatTaskLine(t *testing.T) {
	DisableColor()
	t.Cleanup(EnableColor)

	tsk, err := task.New("Write report", 0)
	if err != nil {
		t.Fatalf("task.New failed: %v", err)
	}

	// Zero estimate renders at the placement floor.
	line := formatTaskLine(tsk, 1)
	if !strings.Contains(line, "Write report (15m)") {
		t.Errorf("line = %q", line)
	}
	if !strings.HasPrefix(line, "  ○") {
		t.Errorf("indent/symbol: %q", line)
	}

	at := time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC)
	tsk.ScheduledAt = &at
	line = formatTaskLine(tsk, 0)
	if !strings.Contains(line, "2025-01-06 09:30") {
		t.Errorf("scheduled line = %q", line)
	}
}
