// Package scheduler implements focal's calendar placement engine: the
// per-minute occupancy grid, the greedy first-fit auto-scheduler, and the
// snapping rules for interactive move and resize.
package scheduler

import (
	"time"

	"github.com/mgilabert/focal/internal/dateutil"
	"github.com/mgilabert/focal/internal/task"
)

// MinutesPerDay is the number of occupancy cells per calendar day.
const MinutesPerDay = 24 * 60

// Grid is a per-day busy/free bitmap over a scheduling horizon. It is
// derived, ephemeral state: rebuilt from scheduled tasks on every run and
// never shared between invocations.
type Grid struct {
	days  []time.Time
	cells [][]bool
}

// NewGrid allocates an empty grid for the given horizon days.
func NewGrid(horizon []time.Time) *Grid {
	g := &Grid{
		days:  make([]time.Time, len(horizon)),
		cells: make([][]bool, len(horizon)),
	}
	for i, d := range horizon {
		g.days[i] = dateutil.TruncateToDay(d)
		g.cells[i] = make([]bool, MinutesPerDay)
	}
	return g
}

// BuildGrid constructs the occupancy grid for the horizon from scheduled
// tasks. Completed tasks are excluded so a scheduler run can reuse slots
// freed by finished work. Intervals running past midnight are truncated at
// the day's last minute; they do not wrap into the next day.
func BuildGrid(horizon []time.Time, scheduled []*task.Task) *Grid {
	g := NewGrid(horizon)
	for _, t := range scheduled {
		if t.IsCompleted() {
			continue
		}
		day, ok := t.ScheduledDay()
		if !ok {
			continue
		}
		di := g.dayIndex(day)
		if di < 0 {
			continue
		}
		start, _ := t.StartMinute()
		g.mark(di, start, t.EstimatedMinutes)
	}
	return g
}

// Days returns the horizon days in order.
func (g *Grid) Days() []time.Time {
	return g.days
}

// Free reports whether every minute of [start, start+duration) is free on the
// given horizon day. Intervals reaching past the day's bound are not free.
func (g *Grid) Free(dayIndex, start, duration int) bool {
	if dayIndex < 0 || dayIndex >= len(g.cells) {
		return false
	}
	if start < 0 || start+duration > MinutesPerDay {
		return false
	}
	for m := start; m < start+duration; m++ {
		if g.cells[dayIndex][m] {
			return false
		}
	}
	return true
}

// Claim marks [start, start+duration) busy on the given horizon day, clamped
// to the day's bound.
func (g *Grid) Claim(dayIndex, start, duration int) {
	g.mark(dayIndex, start, duration)
}

// Busy reports whether a single minute is claimed.
func (g *Grid) Busy(dayIndex, minute int) bool {
	if dayIndex < 0 || dayIndex >= len(g.cells) || minute < 0 || minute >= MinutesPerDay {
		return false
	}
	return g.cells[dayIndex][minute]
}

func (g *Grid) dayIndex(day time.Time) int {
	for i, d := range g.days {
		if d.Equal(day) {
			return i
		}
	}
	return -1
}

func (g *Grid) mark(dayIndex, start, duration int) {
	if dayIndex < 0 || dayIndex >= len(g.cells) {
		return
	}
	end := start + duration
	if start < 0 {
		start = 0
	}
	if end > MinutesPerDay {
		end = MinutesPerDay
	}
	for m := start; m < end; m++ {
		g.cells[dayIndex][m] = true
	}
}
