package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgilabert/focal/internal/dateutil"
	"github.com/mgilabert/focal/internal/session"
)

func (a *App) sessionsCmd() *cobra.Command {
	var week string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Show focus session history",
		Example: `  focal sessions
  focal sessions --week=2025-01-06`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ref, err := dateutil.ParseDate(week)
			if err != nil {
				return err
			}
			start, end := dateutil.WeekRange(ref)

			sessions, err := a.store.ListSessionsInRange(context.Background(), start, end.AddDate(0, 0, 1))
			if err != nil {
				return fmt.Errorf("listing sessions: %w", err)
			}
			if len(sessions) == 0 {
				fmt.Println("No focus sessions recorded this week.")
				return nil
			}

			stats := session.Aggregate(dateutil.WeekHorizon(start), sessions)

			fmt.Println(colorHeader.Sprintf("Week of %s", start.Format("2006-01-02")))
			divider()
			var day time.Time
			for _, s := range sessions {
				if !dateutil.SameDay(day, s.StartedAt) {
					day = s.StartedAt
					fmt.Printf("%s\n", colorHeader.Sprint(day.Format("Monday 2006-01-02")))
				}
				fmt.Printf("  %s  %s", s.StartedAt.Format("15:04"), formatMinutes(s.ActualMinutes))
				if s.Completed {
					fmt.Printf("  %s", colorDone.Sprint("completed"))
				} else {
					fmt.Printf("  %s", colorMuted.Sprintf("interrupted (%s)", s.InterruptReason))
				}
				fmt.Println()
			}

			divider()
			fmt.Printf("Total: %s across %d session(s), %d%% completed\n",
				colorDone.Sprint(formatMinutes(stats.FocusMinutes)),
				stats.TotalSessions, stats.CompletionPercent())
			return nil
		},
	}

	cmd.Flags().StringVar(&week, "week", "", "Any date inside the week to show (YYYY-MM-DD, default: this week)")

	return cmd
}
