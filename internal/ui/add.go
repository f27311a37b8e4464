package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgilabert/focal/internal/scheduler"
	"github.com/mgilabert/focal/internal/task"
)

func (a *App) addCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Quick-add a task",
		Long: `Quick-add a task to the Inbox (or a named project).

The text may carry a duration token (15m, 25m, 30m, 45m, 1h, 2h) and a
"today" or "tomorrow" keyword. Recognized tokens are stripped from the
title; a day keyword schedules the task at that day's first working hour.

Example:
  focal add "Write report 30m tomorrow"
  focal add "Sort receipts 15m" --project=Admin`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := context.Background()

			qa := task.ParseQuickAdd(args[0], time.Now())
			t, err := task.New(qa.Title, qa.EstimatedMinutes)
			if err != nil {
				return err
			}
			if qa.Day != nil {
				window := scheduler.Window{Start: a.config.Schedule.DayStart, End: a.config.Schedule.DayEnd}
				at := qa.Day.Add(time.Duration(window.StartMinute()) * time.Minute)
				t.ScheduledAt = &at
			}

			target, err := a.findOrCreateProject(ctx, project)
			if err != nil {
				return err
			}
			if err := a.repo.SaveTasks(ctx, target.ID, task.Attach(target.Tasks, "", t)); err != nil {
				return fmt.Errorf("saving task: %w", err)
			}

			if t.ScheduledAt != nil {
				fmt.Printf("Added %q to %s, scheduled %s\n",
					t.Title, target.Name, t.ScheduledAt.Format("2006-01-02 15:04"))
			} else {
				fmt.Printf("Added %q to %s backlog\n", t.Title, target.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Target project name (default: Inbox)")

	return cmd
}

// findOrCreateProject resolves a project by name, defaulting to the Inbox
// and creating it when missing.
func (a *App) findOrCreateProject(ctx context.Context, name string) (*task.Project, error) {
	if name == "" {
		name = task.InboxProjectName
	}

	projects, err := a.repo.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	for _, p := range projects {
		if p.Name == name {
			return p, nil
		}
	}

	p, err := task.NewProject(name, "")
	if err != nil {
		return nil, err
	}
	if err := a.repo.CreateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("creating project %q: %w", name, err)
	}
	return p, nil
}
