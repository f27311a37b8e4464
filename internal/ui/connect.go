package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgilabert/focal/internal/dateutil"
	"github.com/mgilabert/focal/internal/integrations"
)

func (a *App) connectCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "connect [provider]",
		Short: "Import events from an external calendar",
		Long: `Pull upcoming events from a calendar provider into the Inbox as
scheduled tasks, so the auto-scheduler works around them.

Providers are simulated in this build: "gcal" and "outlook" return
representative recurring events without touching a real account.`,
		Example: `  focal connect gcal
  focal connect outlook --days=14`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			provider, err := integrations.NewProvider(args[0])
			if err != nil {
				return err
			}

			start := dateutil.TruncateToDay(time.Now())
			end := start.AddDate(0, 0, days)

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			created, err := integrations.NewImporter(a.repo).Import(ctx, provider, start, end)
			if err != nil {
				return err
			}
			if len(created) == 0 {
				fmt.Printf("No new %s events in the next %d day(s).\n", provider.Name(), days)
				return nil
			}

			fmt.Printf("Imported %d event(s) from %s:\n", len(created), provider.Name())
			for _, t := range created {
				fmt.Printf("  %s  %s\n",
					colorScheduled.Sprint(t.ScheduledAt.Format("Mon 2006-01-02 15:04")), t.Title)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "How many days ahead to import")

	return cmd
}
