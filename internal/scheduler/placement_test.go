package scheduler

import (
	"testing"
	"time"
)

func TestDropOnHour(t *testing.T) {
	d := day(t, "2025-01-06").Add(13 * time.Hour) // time component must be ignored

	tests := []struct {
		name string
		hour int
		want time.Duration
	}{
		{"morning", 9, 9 * time.Hour},
		{"midnight hour", 0, 0},
		{"last hour", 23, 23 * time.Hour},
		{"negative clamps to midnight", -1, 0},
		{"past range clamps to midnight", 24, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DropOnHour(d, tc.hour)
			want := day(t, "2025-01-06").Add(tc.want)
			if !got.Equal(want) {
				t.Errorf("DropOnHour(%d) = %v, want %v", tc.hour, got, want)
			}
		})
	}
}

func TestDropOnDay(t *testing.T) {
	d := day(t, "2025-01-06").Add(15*time.Hour + 42*time.Minute)
	got := DropOnDay(d)
	if !got.Equal(day(t, "2025-01-06")) {
		t.Errorf("DropOnDay = %v, want midnight", got)
	}
}

func TestResizePreview(t *testing.T) {
	tests := []struct {
		name    string
		initial int
		delta   int
		want    int
	}{
		{"grow", 30, 22, 52},
		{"shrink", 60, -30, 30},
		{"shrink below floor", 30, -25, 15},
		{"negative candidate", 30, -100, 15},
		{"no movement", 45, 0, 45},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResizePreview(tc.initial, tc.delta); got != tc.want {
				t.Errorf("ResizePreview(%d, %d) = %d, want %d", tc.initial, tc.delta, got, tc.want)
			}
		})
	}
}

func TestResizeCommit(t *testing.T) {
	tests := []struct {
		candidate int
		want      int
	}{
		{52, 45},  // round(52/15)=3
		{53, 60},  // round(53/15)=4 (3.53 rounds up)
		{15, 15},
		{22, 15},  // round(22/15)=1
		{23, 30},  // round(23/15)=2 (1.53 rounds up)
		{7, 15},   // snaps to 0 then floors
		{0, 15},
		{150, 150},
	}

	for _, tc := range tests {
		if got := ResizeCommit(tc.candidate); got != tc.want {
			t.Errorf("ResizeCommit(%d) = %d, want %d", tc.candidate, got, tc.want)
		}
	}
}

func TestResizeCommit_AlwaysMultipleOf15(t *testing.T) {
	for candidate := 0; candidate <= 300; candidate++ {
		got := ResizeCommit(candidate)
		if got < MinDuration {
			t.Fatalf("ResizeCommit(%d) = %d, below floor", candidate, got)
		}
		if got%SlotStep != 0 {
			t.Fatalf("ResizeCommit(%d) = %d, not a multiple of %d", candidate, got, SlotStep)
		}
	}
}
