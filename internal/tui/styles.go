package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mgilabert/focal/internal/tui/theme"
)

// Default day column width, recalculated from terminal width.
const defaultColWidth = 16

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color
	colorScheduled   lipgloss.Color
	colorDone        lipgloss.Color
	colorTimer       lipgloss.Color
	colorWarning     lipgloss.Color

	// Title and headers
	TitleStyle          lipgloss.Style
	DayHeaderStyle      lipgloss.Style
	DayHeaderTodayStyle lipgloss.Style
	TimeColumnStyle     lipgloss.Style

	// Week grid cells
	EmptyCellStyle    lipgloss.Style
	TaskCellStyle     lipgloss.Style
	TaskDoneStyle     lipgloss.Style
	TaskCurrentStyle  lipgloss.Style
	CursorStyle       lipgloss.Style
	MovePreviewStyle  lipgloss.Style
	ConflictCellStyle lipgloss.Style

	// Backlog pane
	BacklogTitleStyle    lipgloss.Style
	BacklogItemStyle     lipgloss.Style
	BacklogSelectedStyle lipgloss.Style
	BacklogProjectStyle  lipgloss.Style

	// Focus timer screen
	TimerClockStyle lipgloss.Style
	TimerLabelStyle lipgloss.Style
	TimerStateStyle lipgloss.Style

	// Footer
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	InputStyle  lipgloss.Style
}

// NewStyles creates a Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{
		colorBg:          theme.Color(t.Bg),
		colorBgHighlight: theme.Color(t.BgHighlight),
		colorBgSelection: theme.Color(t.BgSelection),
		colorFg:          theme.Color(t.Fg),
		colorFgMuted:     theme.Color(t.FgMuted),
		colorAccent:      theme.Color(t.Accent),
		colorScheduled:   theme.Color(t.Scheduled),
		colorDone:        theme.Color(t.Done),
		colorTimer:       theme.Color(t.Timer),
		colorWarning:     theme.Color(t.Warning),
	}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent)

	s.DayHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(s.colorFg).
		Width(defaultColWidth)

	s.DayHeaderTodayStyle = s.DayHeaderStyle.
		Foreground(s.colorAccent)

	s.TimeColumnStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Width(6)

	s.EmptyCellStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Width(defaultColWidth)

	s.TaskCellStyle = lipgloss.NewStyle().
		Background(s.colorBgHighlight).
		Foreground(s.colorScheduled).
		Width(defaultColWidth)

	s.TaskDoneStyle = lipgloss.NewStyle().
		Background(s.colorBgHighlight).
		Foreground(s.colorDone).
		Faint(true).
		Width(defaultColWidth)

	s.TaskCurrentStyle = lipgloss.NewStyle().
		Background(s.colorBgHighlight).
		Foreground(s.colorTimer).
		Bold(true).
		Width(defaultColWidth)

	s.CursorStyle = lipgloss.NewStyle().
		Background(s.colorBgSelection).
		Foreground(s.colorAccent).
		Bold(true).
		Width(defaultColWidth)

	s.MovePreviewStyle = lipgloss.NewStyle().
		Background(s.colorAccent).
		Foreground(s.colorBg).
		Bold(true).
		Width(defaultColWidth)

	// Two tasks rendered into the same hour cell.
	s.ConflictCellStyle = lipgloss.NewStyle().
		Background(s.colorBgHighlight).
		Foreground(s.colorWarning).
		Width(defaultColWidth)

	s.BacklogTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent)

	s.BacklogItemStyle = lipgloss.NewStyle().
		Foreground(s.colorFg)

	s.BacklogSelectedStyle = lipgloss.NewStyle().
		Background(s.colorBgSelection).
		Foreground(s.colorAccent).
		Bold(true)

	s.BacklogProjectStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted)

	s.TimerClockStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorTimer)

	s.TimerLabelStyle = lipgloss.NewStyle().
		Foreground(s.colorFg)

	s.TimerStateStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Bold(true)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted)

	s.InputStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorAccent).
		Padding(0, 1)

	return s
}

// EmptyCellStyleWidth returns the empty cell style with the given width.
func (s *Styles) EmptyCellStyleWidth(width int) lipgloss.Style {
	return s.EmptyCellStyle.Width(width)
}

// TaskCellStyleWidth returns the task cell style with the given width.
func (s *Styles) TaskCellStyleWidth(width int) lipgloss.Style {
	return s.TaskCellStyle.Width(width)
}

// CursorStyleWidth returns the cursor style with the given width.
func (s *Styles) CursorStyleWidth(width int) lipgloss.Style {
	return s.CursorStyle.Width(width)
}

// DayHeaderStyleWidth returns the day header style with the given width.
func (s *Styles) DayHeaderStyleWidth(width int) lipgloss.Style {
	return s.DayHeaderStyle.Width(width)
}
