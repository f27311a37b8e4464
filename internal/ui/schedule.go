package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgilabert/focal/internal/autoplan"
	"github.com/mgilabert/focal/internal/dateutil"
	"github.com/mgilabert/focal/internal/scheduler"
	"github.com/mgilabert/focal/internal/task"
)

func (a *App) scheduleCmd() *cobra.Command {
	var (
		from string
		days int
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Auto-schedule the backlog",
		Long: `Fit every unscheduled task into free working-hour slots.

Tasks are placed in project order, earliest free slot first, within the
configured day window. Tasks that do not fit stay in the backlog.`,
		Example: `  focal schedule
  focal schedule --from=2025-01-06 --days=14`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			start, err := dateutil.ParseDate(from)
			if err != nil {
				return err
			}
			if days <= 0 {
				days = a.config.Schedule.HorizonDays
			}

			window := scheduler.Window{
				Start: a.config.Schedule.DayStart,
				End:   a.config.Schedule.DayEnd,
			}
			runner := autoplan.NewRunner(a.repo, window)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			result, err := runner.Run(ctx, start, days)
			if err != nil {
				return fmt.Errorf("auto-scheduling: %w", err)
			}

			if len(result.Placed) == 0 && result.Remaining == 0 {
				fmt.Println("Backlog is empty; nothing to schedule.")
				return nil
			}

			titles, err := a.taskTitles(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Placed %d task(s):\n", len(result.Placed))
			for _, p := range result.Placed {
				fmt.Printf("  %s  %s\n",
					colorScheduled.Sprint(p.At.Format("Mon 2006-01-02 15:04")),
					titles[p.TaskID])
			}
			if result.Remaining > 0 {
				fmt.Println(colorMuted.Sprintf("%d task(s) did not fit and stay in the backlog.", result.Remaining))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day of the horizon (YYYY-MM-DD, default: today)")
	cmd.Flags().IntVar(&days, "days", 0, "Horizon length in days (default: configured horizon)")

	return cmd
}

// taskTitles maps every task ID to its title across all projects.
func (a *App) taskTitles(ctx context.Context) (map[string]string, error) {
	projects, err := a.repo.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	titles := make(map[string]string)
	for _, p := range projects {
		for _, t := range task.Flatten(p.Tasks) {
			titles[t.ID] = t.Title
		}
	}
	return titles, nil
}
