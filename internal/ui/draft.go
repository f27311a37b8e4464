package ui

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgilabert/focal/internal/draft"
	"github.com/mgilabert/focal/internal/llm"
	"github.com/mgilabert/focal/internal/task"
)

func (a *App) draftCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "draft [description]",
		Short: "Draft a project plan with AI",
		Long: `Describe a goal and let the AI propose a project plan: stages with
tasks and time estimates. Review the proposal, refine it with follow-up
instructions, and accept it to create the project.`,
		Example: `  focal draft "learn sourdough baking over the next month"
  focal draft "ship the Q2 report" --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			client, err := llm.NewClient(a.config.LLM.Provider, a.config.LLM.Model, a.config.LLM.BaseURL)
			if err != nil {
				return fmt.Errorf("creating LLM client: %w", err)
			}

			d := draft.New(client, a.repo)
			ctx := context.Background()

			proposal, err := d.Draft(ctx, args[0])
			if err != nil {
				return err
			}

			reader := bufio.NewReader(os.Stdin)
			accepted := yes
			if accepted {
				fmt.Println(proposal.Summary())
			}
			for !accepted {
				fmt.Println(proposal.Summary())
				for _, note := range proposal.Notes {
					fmt.Println(colorMuted.Sprintf("  note: %s", note))
				}

				fmt.Print("Accept this plan? [y]es / [r]efine / [q]uit: ")
				answer, _ := reader.ReadString('\n')
				switch strings.ToLower(strings.TrimSpace(answer)) {
				case "y", "yes":
					accepted = true
				case "q", "quit", "n", "no":
					fmt.Println("Draft discarded.")
					return nil
				case "r", "refine":
					fmt.Print("How should it change? ")
					feedback, _ := reader.ReadString('\n')
					proposal, err = d.Draft(ctx, strings.TrimSpace(feedback))
					if err != nil {
						return err
					}
				}
			}

			p, err := d.Save(ctx, proposal)
			if err != nil {
				return err
			}
			fmt.Printf("Created project %s with %d stage(s).\n",
				colorHeader.Sprint(p.Name), len(p.Tasks))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Accept the first valid draft without prompting")

	return cmd
}

func (a *App) breakdownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "breakdown [project] [task-title]",
		Short: "Split a task into AI-suggested subtasks",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := context.Background()

			project, target, err := a.findTaskByTitle(ctx, args[0], args[1])
			if err != nil {
				return err
			}

			client, err := llm.NewClient(a.config.LLM.Provider, a.config.LLM.Model, a.config.LLM.BaseURL)
			if err != nil {
				return fmt.Errorf("creating LLM client: %w", err)
			}

			children, err := draft.New(client, a.repo).BreakdownTask(ctx, project.ID, target.ID)
			if err != nil {
				return err
			}

			fmt.Printf("Split %q into %d subtask(s):\n", target.Title, len(children))
			for _, c := range children {
				fmt.Printf("  - %s (%s)\n", c.Title, formatMinutes(c.EstimatedMinutes))
			}
			return nil
		},
	}
}

// findTaskByTitle resolves a project by name and one of its tasks by exact
// title.
func (a *App) findTaskByTitle(ctx context.Context, projectName, title string) (*task.Project, *task.Task, error) {
	projects, err := a.repo.ListProjects(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing projects: %w", err)
	}

	for _, p := range projects {
		if p.Name != projectName {
			continue
		}
		var found *task.Task
		task.Walk(p.Tasks, func(t *task.Task) bool {
			if t.Title == title {
				found = t
				return false
			}
			return true
		})
		if found == nil {
			return nil, nil, fmt.Errorf("task %q: %w", title, task.ErrTaskNotFound)
		}
		return p, found, nil
	}
	return nil, nil, fmt.Errorf("project %q: %w", projectName, task.ErrProjectNotFound)
}
