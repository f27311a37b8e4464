package task

import (
	"testing"
	"time"
)

func TestParseQuickAdd(t *testing.T) {
	now := time.Date(2025, 1, 6, 11, 30, 0, 0, time.Local)
	today := time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local)
	tomorrow := today.AddDate(0, 0, 1)

	tests := []struct {
		name      string
		input     string
		wantTitle string
		wantMins  int
		wantDay   *time.Time
	}{
		{"plain title", "Reply to emails", "Reply to emails", 0, nil},
		{"duration token", "Review PR 30m", "Review PR", 30, nil},
		{"hour token", "Plan sprint 1h", "Plan sprint", 60, nil},
		{"today keyword", "Standup notes today", "Standup notes", 0, &today},
		{"tomorrow keyword", "tomorrow Pay invoices 15m", "Pay invoices", 15, &tomorrow},
		{"first duration wins", "Mix 25m tracks 45m", "Mix tracks 45m", 25, nil},
		{"case insensitive", "Gym TOMORROW 1H", "Gym", 60, &tomorrow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseQuickAdd(tc.input, now)
			if got.Title != tc.wantTitle {
				t.Errorf("title = %q, want %q", got.Title, tc.wantTitle)
			}
			if got.EstimatedMinutes != tc.wantMins {
				t.Errorf("minutes = %d, want %d", got.EstimatedMinutes, tc.wantMins)
			}
			switch {
			case tc.wantDay == nil && got.Day != nil:
				t.Errorf("day = %v, want nil", got.Day)
			case tc.wantDay != nil && got.Day == nil:
				t.Errorf("day = nil, want %v", tc.wantDay)
			case tc.wantDay != nil && !got.Day.Equal(*tc.wantDay):
				t.Errorf("day = %v, want %v", got.Day, tc.wantDay)
			}
		})
	}
}
