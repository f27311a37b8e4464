package scheduler

import (
	"time"

	"github.com/mgilabert/focal/internal/task"
)

const (
	// SlotStep is the candidate-start granularity in minutes.
	SlotStep = 15
	// MinDuration is the floor for a task's effective placement duration.
	MinDuration = 15
)

// Window is the working-hours window placements must stay inside,
// in "HH:MM" format.
type Window struct {
	Start string
	End   string
}

// DefaultWindow is the fixed 09:00-17:00 working-hours window.
func DefaultWindow() Window {
	return Window{Start: "09:00", End: "17:00"}
}

// StartMinute returns the window start as minutes since midnight.
func (w Window) StartMinute() int {
	return parseTime(w.Start)
}

// EndMinute returns the window end as minutes since midnight.
func (w Window) EndMinute() int {
	return parseTime(w.End)
}

// Placement assigns one task a scheduled instant. Placements are recorded
// rather than applied; the caller commits the whole run atomically.
type Placement struct {
	TaskID string
	At     time.Time
}

// EffectiveDuration returns the minutes a task occupies for placement
// purposes: its estimate, floored at MinDuration. Zero or unset estimates
// still consume a minimum slot.
func EffectiveDuration(estimatedMinutes int) int {
	if estimatedMinutes < MinDuration {
		return MinDuration
	}
	return estimatedMinutes
}

// Schedule assigns each queued task the first free slot in the horizon using
// greedy first-fit: horizon days in order, candidate starts from the window
// start to the latest start that still fits, in SlotStep increments. Claimed
// minutes are marked busy immediately, so the pack is strictly sequential and
// order-dependent. Tasks that fit nowhere are skipped silently and remain in
// the backlog; the grid is mutated but no other state is touched.
func Schedule(queue []*task.Task, g *Grid, w Window) []Placement {
	var placements []Placement
	winStart := w.StartMinute()
	winEnd := w.EndMinute()

	for _, t := range queue {
		duration := EffectiveDuration(t.EstimatedMinutes)

		for di, day := range g.Days() {
			start, ok := findSlot(g, di, winStart, winEnd, duration)
			if !ok {
				continue
			}
			g.Claim(di, start, duration)
			at := day.Add(time.Duration(start) * time.Minute)
			placements = append(placements, Placement{TaskID: t.ID, At: at})
			break
		}
	}

	return placements
}

// findSlot scans candidate start minutes on one day and returns the first
// start whose whole interval is free.
func findSlot(g *Grid, dayIndex, winStart, winEnd, duration int) (int, bool) {
	for start := winStart; start+duration <= winEnd; start += SlotStep {
		if g.Free(dayIndex, start, duration) {
			return start, true
		}
	}
	return 0, false
}

// parseTime parses "HH:MM" to minutes since midnight.
func parseTime(s string) int {
	if len(s) < 5 {
		return 0
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h*60 + m
}
