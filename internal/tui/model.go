// Package tui provides the interactive week-planner interface for focal.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgilabert/focal/internal/config"
	"github.com/mgilabert/focal/internal/dateutil"
	"github.com/mgilabert/focal/internal/scheduler"
	"github.com/mgilabert/focal/internal/session"
	"github.com/mgilabert/focal/internal/task"
	"github.com/mgilabert/focal/internal/timer"
	"github.com/mgilabert/focal/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeWeek    Mode = iota
	ModeBacklog      // Backlog pane focused
	ModeMove         // Moving a scheduled or backlog task across hour cells
	ModeResize       // Adjusting a task's estimated duration
	ModeTimer        // Focus timer screen
	ModeInput        // Quick-add text input
)

// Position is a cursor position in the week grid.
type Position struct {
	Day  int // 0=Sunday, 6=Saturday
	Hour int // Hour of day within the working window
}

// backlogItem pairs an unscheduled task with its owning project for the
// backlog pane.
type backlogItem struct {
	ProjectID   string
	ProjectName string
	Task        *task.Task
}

// owner records which project a task belongs to, so grid-level mutations
// can write back through SaveTasks.
type owner struct {
	ProjectID   string
	ProjectName string
}

// Model is the main TUI model.
type Model struct {
	repo  task.Repository
	store session.Store
	cfg   *config.Config

	theme  *theme.Theme
	styles *Styles
	keys   keyMap
	help   help.Model

	window    scheduler.Window
	weekStart time.Time // Sunday of the displayed week
	cursor    Position
	mode      Mode
	loading   bool

	// Week data
	projects  []*task.Project
	scheduled []*task.Task
	backlog   []backlogItem
	owners    map[string]owner

	// Backlog pane
	backlogCursor int

	// Move mode
	moveTask    *task.Task
	moveDay     int
	moveHour    int
	fromBacklog bool

	// Resize mode
	resizeTask  *task.Task
	resizeBase  int
	resizeDelta int

	// Focus timer
	focus      *timer.Timer
	focusTitle string

	// Auto-plan and import guards: one run at a time
	planning  bool
	importing bool

	// Quick add
	input textinput.Model

	width  int
	height int

	statusMsg  string
	statusTime time.Time

	err error
}

// New creates a new TUI model.
func New(repo task.Repository, store session.Store, cfg *config.Config) *Model {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}

	ti := textinput.New()
	ti.Placeholder = "Write report ~45m @tomorrow"
	ti.CharLimit = 256
	ti.Width = 48

	window := scheduler.Window{Start: cfg.Schedule.DayStart, End: cfg.Schedule.DayEnd}
	now := time.Now()

	return &Model{
		repo:      repo,
		store:     store,
		cfg:       cfg,
		theme:     t,
		styles:    NewStyles(t),
		keys:      newKeyMap(),
		help:      help.New(),
		window:    window,
		weekStart: dateutil.StartOfWeek(now),
		cursor:    Position{Day: int(now.Weekday()), Hour: window.StartMinute() / 60},
		mode:      ModeWeek,
		loading:   true,
		owners:    map[string]owner{},
		focus:     timer.New(nil),
		input:     ti,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return loadWeek(m.repo, m.weekStart)
}

// Run starts the TUI and blocks until it exits.
func Run(repo task.Repository, store session.Store, cfg *config.Config) error {
	p := tea.NewProgram(New(repo, store, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// firstHour returns the first hour row of the grid.
func (m Model) firstHour() int {
	return m.window.StartMinute() / 60
}

// lastHour returns the last hour row of the grid, inclusive.
func (m Model) lastHour() int {
	return (m.window.EndMinute() - 1) / 60
}

// dayAt returns the date of the given week column.
func (m Model) dayAt(col int) time.Time {
	return m.weekStart.AddDate(0, 0, col)
}

// taskCovering returns the first scheduled task whose placement covers the
// given minute of the given day, or nil, plus whether more than one does.
func (m Model) taskCovering(day time.Time, minute int) (*task.Task, bool) {
	var found *task.Task
	stacked := false
	for _, t := range m.scheduled {
		d, ok := t.ScheduledDay()
		if !ok || !dateutil.SameDay(d, day) {
			continue
		}
		start, _ := t.StartMinute()
		end := start + scheduler.EffectiveDuration(t.EstimatedMinutes)
		if minute >= start && minute < end {
			if found != nil {
				stacked = true
				break
			}
			found = t
		}
	}
	return found, stacked
}

// taskAtCursor returns the scheduled task under the cursor, or nil.
func (m Model) taskAtCursor() *task.Task {
	t, _ := m.taskCovering(m.dayAt(m.cursor.Day), m.cursor.Hour*60)
	return t
}

// selectedBacklogItem returns the backlog item under the backlog cursor.
func (m Model) selectedBacklogItem() *backlogItem {
	if m.backlogCursor < 0 || m.backlogCursor >= len(m.backlog) {
		return nil
	}
	return &m.backlog[m.backlogCursor]
}

// rebuildIndex recomputes the backlog list and the task-to-project index
// from the loaded projects.
func (m *Model) rebuildIndex() {
	m.backlog = m.backlog[:0]
	m.owners = map[string]owner{}
	for _, p := range m.projects {
		o := owner{ProjectID: p.ID, ProjectName: p.Name}
		for _, t := range task.Flatten(p.Tasks) {
			m.owners[t.ID] = o
		}
		for _, t := range p.Backlog() {
			if !t.IsLeaf() {
				continue
			}
			m.backlog = append(m.backlog, backlogItem{
				ProjectID:   p.ID,
				ProjectName: p.Name,
				Task:        t,
			})
		}
	}
	if m.backlogCursor >= len(m.backlog) {
		m.backlogCursor = len(m.backlog) - 1
	}
	if m.backlogCursor < 0 {
		m.backlogCursor = 0
	}
}

// setStatus sets a transient status message.
func (m *Model) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusTime = time.Now().Add(4 * time.Second)
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
