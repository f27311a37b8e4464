package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mgilabert/focal/internal/dateutil"
	"github.com/mgilabert/focal/internal/scheduler"
	"github.com/mgilabert/focal/internal/task"
)

const backlogPaneItems = 6

// View renders the TUI.
func (m Model) View() string {
	if m.mode == ModeTimer {
		return m.renderTimer()
	}

	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n\n")

	if m.loading && len(m.projects) == 0 {
		b.WriteString("Loading...\n")
		return b.String()
	}

	b.WriteString(m.renderGrid())
	b.WriteString("\n")
	b.WriteString(m.renderBacklog())
	b.WriteString("\n")

	if m.mode == ModeInput {
		b.WriteString(m.styles.InputStyle.Render(m.input.View()))
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString(m.styles.StatusStyle.Render(m.statusMsg))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.HelpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderTitle() string {
	weekEnd := m.weekStart.AddDate(0, 0, 6)
	title := m.styles.TitleStyle.Render("focal")
	rangeLabel := fmt.Sprintf("%s – %s",
		m.weekStart.Format("Jan 2"), weekEnd.Format("Jan 2, 2006"))
	return title + "  " + m.styles.BacklogProjectStyle.Render(rangeLabel)
}

func (m Model) colWidth() int {
	if m.width <= 0 {
		return defaultColWidth
	}
	w := (m.width - 8) / 7
	if w < 8 {
		return 8
	}
	if w > 22 {
		return 22
	}
	return w
}

func (m Model) renderGrid() string {
	colWidth := m.colWidth()
	now := time.Now()

	var rows []string

	// Day header row
	cells := []string{m.styles.TimeColumnStyle.Render("")}
	for d := 0; d < 7; d++ {
		day := m.dayAt(d)
		style := m.styles.DayHeaderStyleWidth(colWidth)
		if dateutil.SameDay(day, now) {
			style = m.styles.DayHeaderTodayStyle.Width(colWidth)
		}
		cells = append(cells, style.Render(day.Format("Mon 2")))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))

	for hour := m.firstHour(); hour <= m.lastHour(); hour++ {
		cells := []string{m.styles.TimeColumnStyle.Render(fmt.Sprintf("%02d:00", hour))}
		for d := 0; d < 7; d++ {
			cells = append(cells, m.renderCell(d, hour, colWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return strings.Join(rows, "\n")
}

func (m Model) renderCell(day, hour, colWidth int) string {
	// Move preview wins over everything at its cell.
	if m.mode == ModeMove && day == m.moveDay && hour == m.moveHour {
		return m.styles.MovePreviewStyle.Width(colWidth).
			Render(truncate(m.moveTask.Title, colWidth))
	}

	underCursor := m.mode != ModeBacklog && day == m.cursor.Day && hour == m.cursor.Hour

	t, stacked := m.taskCovering(m.dayAt(day), hour*60)
	if t == nil {
		if underCursor {
			return m.styles.CursorStyleWidth(colWidth).Render("·")
		}
		return m.styles.EmptyCellStyleWidth(colWidth).Render("·")
	}

	label := t.Title
	start, _ := t.StartMinute()
	if start/60 != hour {
		// Continuation row of a multi-hour block.
		label = "│ " + label
	}
	if m.mode == ModeResize && m.resizeTask != nil && t.ID == m.resizeTask.ID {
		preview := scheduler.ResizePreview(m.resizeBase, m.resizeDelta)
		label = fmt.Sprintf("%s (%dm)", t.Title, preview)
	}
	label = truncate(label, colWidth)

	switch {
	case underCursor:
		return m.styles.CursorStyleWidth(colWidth).Render(label)
	case stacked:
		return m.styles.ConflictCellStyle.Width(colWidth).Render(label)
	case t.IsCompleted():
		return m.styles.TaskDoneStyle.Width(colWidth).Render(label)
	case t.Status == task.StatusInProgress:
		return m.styles.TaskCurrentStyle.Width(colWidth).Render(label)
	default:
		return m.styles.TaskCellStyleWidth(colWidth).Render(label)
	}
}

func (m Model) renderBacklog() string {
	var b strings.Builder
	title := fmt.Sprintf("Backlog (%d)", len(m.backlog))
	b.WriteString(m.styles.BacklogTitleStyle.Render(title))
	b.WriteString("\n")

	if len(m.backlog) == 0 {
		b.WriteString(m.styles.BacklogProjectStyle.Render("  nothing pending"))
		b.WriteString("\n")
		return b.String()
	}

	// Keep the selection visible inside a fixed-height pane.
	first := 0
	if m.backlogCursor >= backlogPaneItems {
		first = m.backlogCursor - backlogPaneItems + 1
	}
	last := first + backlogPaneItems
	if last > len(m.backlog) {
		last = len(m.backlog)
	}

	for i := first; i < last; i++ {
		item := m.backlog[i]
		line := fmt.Sprintf("  %s (%dm)", item.Task.Title,
			scheduler.EffectiveDuration(item.Task.EstimatedMinutes))
		project := m.styles.BacklogProjectStyle.Render(" · " + item.ProjectName)
		if m.mode == ModeBacklog && i == m.backlogCursor {
			b.WriteString(m.styles.BacklogSelectedStyle.Render(line) + project)
		} else {
			b.WriteString(m.styles.BacklogItemStyle.Render(line) + project)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderTimer() string {
	remaining := m.focus.Remaining()
	minutes := int(remaining.Minutes())
	seconds := int(remaining.Seconds()) % 60

	clock := m.styles.TimerClockStyle.Render(fmt.Sprintf("%02d:%02d", minutes, seconds))
	label := m.styles.TimerLabelStyle.Render(m.focusTitle)
	state := m.styles.TimerStateStyle.Render(m.focus.State().String())
	keys := m.styles.HelpStyle.Render("space pause/resume · enter complete · x interrupt")

	panel := lipgloss.JoinVertical(lipgloss.Center, label, "", clock, state, "", keys)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
	}
	return panel
}

// truncate clips s to width cells, appending an ellipsis when clipped.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
