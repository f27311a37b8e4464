// Package summary provides shared week summary utilities.
package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/mgilabert/focal/internal/dateutil"
	"github.com/mgilabert/focal/internal/llm"
	"github.com/mgilabert/focal/internal/session"
	"github.com/mgilabert/focal/internal/task"
)

// WeekSummary holds aggregated week data and optional coaching insight.
type WeekSummary struct {
	Start     time.Time
	End       time.Time
	Scheduled []*task.Task
	History   session.HistoryStats
	Insight   string
}

// Options configures the repository-backed summary builder.
type Options struct {
	WeekStart      time.Time // any instant inside the week; zero means now
	IncludeInsight bool
	Client         llm.Client // required when IncludeInsight is set
}

// BuildWeek loads one week of scheduled tasks and focus history and
// aggregates them, optionally asking the LLM for a coaching review.
func BuildWeek(ctx context.Context, repo task.Repository, store session.Store, opts Options) (*WeekSummary, error) {
	weekStart := opts.WeekStart
	if weekStart.IsZero() {
		weekStart = time.Now()
	}

	start, end := dateutil.WeekRange(weekStart)

	scheduled, err := repo.ListScheduledInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching scheduled tasks: %w", err)
	}

	sessions, err := store.ListSessionsInRange(ctx, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("fetching sessions: %w", err)
	}

	ws := &WeekSummary{
		Start:     start,
		End:       end,
		Scheduled: scheduled,
		History:   session.Aggregate(dateutil.WeekHorizon(start), sessions),
	}

	if opts.IncludeInsight && opts.Client != nil {
		insight, err := llm.WeeklyInsight(ctx, opts.Client, ws.report())
		if err != nil {
			return nil, fmt.Errorf("generating insight: %w", err)
		}
		ws.Insight = insight
	}

	return ws, nil
}

// report converts the summary into the coach's input format.
func (ws *WeekSummary) report() llm.WeekReport {
	completed := 0
	for _, t := range ws.Scheduled {
		if t.IsCompleted() {
			completed++
		}
	}

	lines := make([]string, 0, len(ws.History.Days))
	for _, d := range ws.History.Days {
		lines = append(lines, fmt.Sprintf("%s: %d min across %d sessions",
			d.Date.Format("Mon"), d.FocusMinutes, d.Sessions))
	}

	return llm.WeekReport{
		WeekStart:       ws.Start.Format("2006-01-02"),
		FocusMinutes:    ws.History.FocusMinutes,
		Sessions:        ws.History.TotalSessions,
		CompletedBlocks: ws.History.Completed,
		TasksCompleted:  completed,
		TasksPlanned:    len(ws.Scheduled),
		DayLines:        lines,
	}
}

// ScheduledMinutes sums the effective calendar time of the week's tasks.
func (ws *WeekSummary) ScheduledMinutes() int {
	total := 0
	for _, t := range ws.Scheduled {
		total += t.EstimatedMinutes
	}
	return total
}
