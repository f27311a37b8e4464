package ui

import (
	"fmt"
	"strings"

	"github.com/mgilabert/focal/internal/scheduler"
	"github.com/mgilabert/focal/internal/task"
)

// statusSymbol returns a one-rune marker for a task status.
func statusSymbol(s task.Status) string {
	switch s {
	case task.StatusTodo:
		return "○"
	case task.StatusInProgress:
		return "◐"
	case task.StatusCompleted:
		return "●"
	default:
		return "?"
	}
}

// formatMinutes renders a minute count as "45m" or "1h30m".
func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}

// formatTaskLine renders one task at the given tree depth.
func formatTaskLine(t *task.Task, depth int) string {
	indent := strings.Repeat("  ", depth)

	var when string
	if t.ScheduledAt != nil {
		when = t.ScheduledAt.Format(" 2006-01-02 15:04")
	}

	line := fmt.Sprintf("%s%s %s (%s)%s",
		indent, statusSymbol(t.Status), t.Title,
		formatMinutes(scheduler.EffectiveDuration(t.EstimatedMinutes)), when)

	switch {
	case t.IsCompleted():
		return colorDone.Sprint(line)
	case t.ScheduledAt != nil:
		return colorScheduled.Sprint(line)
	default:
		return colorMuted.Sprint(line)
	}
}

// printForest writes a project's task tree.
func printForest(forest []*task.Task, depth int) {
	for _, t := range forest {
		fmt.Println(formatTaskLine(t, depth))
		printForest(t.Children, depth+1)
	}
}

// printProjectHeader writes a project name with its leaf progress.
func printProjectHeader(p *task.Project) {
	stats := p.Stats()
	fmt.Printf("%s %s\n",
		colorHeader.Sprintf("%s", p.Name),
		colorMuted.Sprintf("(%d/%d tasks, %d%%)", stats.CompletedLeaves, stats.TotalLeaves, stats.CompletionPercent()))
}

// divider prints a horizontal rule sized to the terminal.
func divider() {
	width := termWidth()
	if width > 60 {
		width = 60
	}
	fmt.Println(colorMuted.Sprint(strings.Repeat("-", width)))
}
