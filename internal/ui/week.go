package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgilabert/focal/internal/dateutil"
	"github.com/mgilabert/focal/internal/llm"
	"github.com/mgilabert/focal/internal/summary"
)

func (a *App) weekCmd() *cobra.Command {
	var (
		week    string
		insight bool
	)

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the weekly summary",
		Long: `Summarize one week: scheduled tasks, focus time, and completion.
With --insight, an AI coach reviews the week.`,
		Example: `  focal week
  focal week --week=2025-01-06 --insight`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ref, err := dateutil.ParseDate(week)
			if err != nil {
				return err
			}

			opts := summary.Options{WeekStart: ref, IncludeInsight: insight}
			if insight {
				client, err := llm.NewClient(a.config.LLM.Provider, a.config.LLM.Model, a.config.LLM.BaseURL)
				if err != nil {
					return fmt.Errorf("creating LLM client: %w", err)
				}
				opts.Client = client
			}

			ws, err := summary.BuildWeek(context.Background(), a.repo, a.store, opts)
			if err != nil {
				return err
			}

			fmt.Println(colorHeader.Sprintf("Week %s to %s",
				ws.Start.Format("2006-01-02"), ws.End.Format("2006-01-02")))
			divider()

			fmt.Printf("Scheduled: %d task(s), %s planned\n",
				len(ws.Scheduled), formatMinutes(ws.ScheduledMinutes()))
			fmt.Printf("Focus: %s across %d session(s)\n",
				colorDone.Sprint(formatMinutes(ws.History.FocusMinutes)), ws.History.TotalSessions)

			for _, d := range ws.History.Days {
				if d.Sessions == 0 {
					continue
				}
				fmt.Printf("  %s  %s in %d session(s)\n",
					d.Date.Format("Mon"), formatMinutes(d.FocusMinutes), d.Sessions)
			}

			if ws.Insight != "" {
				divider()
				fmt.Println(colorInsight.Sprint(ws.Insight))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&week, "week", "", "Any date inside the week to show (YYYY-MM-DD, default: this week)")
	cmd.Flags().BoolVar(&insight, "insight", false, "Ask the AI coach for a weekly review")

	return cmd
}
