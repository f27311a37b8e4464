package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) listCmd() *cobra.Command {
	var backlogOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects and their tasks",
		Example: `  focal list
  focal list --backlog`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			projects, err := a.repo.ListProjects(context.Background())
			if err != nil {
				return fmt.Errorf("listing projects: %w", err)
			}
			if len(projects) == 0 {
				fmt.Println("No projects yet. Try `focal add` or `focal draft`.")
				return nil
			}

			for i, p := range projects {
				if i > 0 {
					fmt.Println()
				}
				printProjectHeader(p)

				if backlogOnly {
					for _, t := range p.Backlog() {
						fmt.Println(formatTaskLine(t, 1))
					}
					continue
				}
				printForest(p.Tasks, 1)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&backlogOnly, "backlog", false, "Show only unscheduled, unfinished tasks")

	return cmd
}
