package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgilabert/focal/internal/autoplan"
	"github.com/mgilabert/focal/internal/integrations"
	"github.com/mgilabert/focal/internal/scheduler"
	"github.com/mgilabert/focal/internal/task"
)

// weekLoadedMsg is sent when week data finishes loading.
type weekLoadedMsg struct {
	projects  []*task.Project
	scheduled []*task.Task
}

// planDoneMsg is sent when an auto-plan run finishes.
type planDoneMsg struct {
	placed    int
	remaining int
}

// importDoneMsg is sent when a calendar import finishes.
type importDoneMsg struct {
	added int
}

// errMsg is sent when a command fails.
type errMsg struct {
	err error
}

// clearStatusMsg clears an expired status message.
type clearStatusMsg struct{}

// tickMsg drives the focus timer countdown.
type tickMsg time.Time

// loadWeek loads all projects plus the scheduled tasks of the given week.
func loadWeek(repo task.Repository, weekStart time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		projects, err := repo.ListProjects(ctx)
		if err != nil {
			return errMsg{err: err}
		}

		weekEnd := weekStart.AddDate(0, 0, 6)
		scheduled, err := repo.ListScheduledInRange(ctx, weekStart, weekEnd)
		if err != nil {
			return errMsg{err: err}
		}

		return weekLoadedMsg{projects: projects, scheduled: scheduled}
	}
}

// planDelay keeps the "Planning..." status on screen for a beat before
// results land.
const planDelay = 800 * time.Millisecond

// runAutoPlan packs the backlog into free slots over the horizon.
func runAutoPlan(repo task.Repository, window scheduler.Window, from time.Time, horizonDays int) tea.Cmd {
	return func() tea.Msg {
		time.Sleep(planDelay)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := autoplan.NewRunner(repo, window).Run(ctx, from, horizonDays)
		if err != nil {
			return errMsg{err: err}
		}
		return planDoneMsg{placed: len(result.Placed), remaining: result.Remaining}
	}
}

// importCalendars pulls events from every connected provider into the Inbox.
func importCalendars(repo task.Repository, from time.Time, horizonDays int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		end := from.AddDate(0, 0, horizonDays)
		importer := integrations.NewImporter(repo)

		added := 0
		for _, kind := range []string{"gcal", "outlook"} {
			provider, err := integrations.NewProvider(kind)
			if err != nil {
				return errMsg{err: err}
			}
			imported, err := importer.Import(ctx, provider, from, end)
			if err != nil {
				return errMsg{err: err}
			}
			added += len(imported)
		}

		return importDoneMsg{added: added}
	}
}

// tick emits a tickMsg once per second while the timer screen is up.
func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
