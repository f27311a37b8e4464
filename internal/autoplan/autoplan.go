// Package autoplan runs the auto-scheduler against the repository: it
// gathers the backlog, rebuilds the occupancy grid from persisted state,
// computes placements, and applies them atomically.
package autoplan

import (
	"context"
	"fmt"
	"time"

	"github.com/mgilabert/focal/internal/dateutil"
	"github.com/mgilabert/focal/internal/scheduler"
	"github.com/mgilabert/focal/internal/task"
)

// Runner executes auto-scheduling runs.
type Runner struct {
	repo   task.Repository
	window scheduler.Window
}

// NewRunner creates a Runner placing tasks inside the given daily window.
func NewRunner(repo task.Repository, window scheduler.Window) *Runner {
	return &Runner{repo: repo, window: window}
}

// Result summarizes one auto-scheduling run.
type Result struct {
	Placed    []scheduler.Placement
	Remaining int // backlog tasks that found no slot
}

// Run schedules the backlog over horizonDays starting from from's day. The
// grid is rebuilt from persisted state on every run, so completed tasks no
// longer block their old slots. Placements apply in a single transaction;
// a canceled context before apply leaves the schedule untouched.
func (r *Runner) Run(ctx context.Context, from time.Time, horizonDays int) (*Result, error) {
	if horizonDays < 1 {
		return &Result{}, nil
	}

	day := dateutil.TruncateToDay(from)
	horizon := make([]time.Time, horizonDays)
	for i := range horizon {
		horizon[i] = day.AddDate(0, 0, i)
	}

	projects, err := r.repo.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	// Queue order is project creation order, then tree pre-order.
	var queue []*task.Task
	for _, p := range projects {
		queue = append(queue, p.Backlog()...)
	}

	scheduled, err := r.repo.ListScheduledInRange(ctx, horizon[0], horizon[len(horizon)-1])
	if err != nil {
		return nil, fmt.Errorf("listing scheduled tasks: %w", err)
	}

	grid := scheduler.BuildGrid(horizon, scheduled)
	placed := scheduler.Schedule(queue, grid, r.window)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(placed) > 0 {
		updates := make([]task.ScheduleUpdate, len(placed))
		for i, p := range placed {
			updates[i] = task.ScheduleUpdate{TaskID: p.TaskID, At: p.At}
		}
		if err := r.repo.BatchSchedule(ctx, updates); err != nil {
			return nil, fmt.Errorf("applying placements: %w", err)
		}
	}

	return &Result{
		Placed:    placed,
		Remaining: len(queue) - len(placed),
	}, nil
}
