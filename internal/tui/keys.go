package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgilabert/focal/internal/dateutil"
	"github.com/mgilabert/focal/internal/scheduler"
	"github.com/mgilabert/focal/internal/session"
	"github.com/mgilabert/focal/internal/task"
	"github.com/mgilabert/focal/internal/timer"
)

// keyMap holds the key bindings for all modes.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PrevWeek key.Binding
	NextWeek key.Binding
	Today    key.Binding

	Backlog key.Binding
	Add     key.Binding
	Move    key.Binding
	Resize  key.Binding
	Toggle  key.Binding
	Drop    key.Binding
	AllDay  key.Binding
	Plan    key.Binding
	Import  key.Binding
	Focus   key.Binding
	Copy    key.Binding

	Confirm key.Binding
	Cancel  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Left:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "left")),
		Right:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "right")),
		PrevWeek: key.NewBinding(key.WithKeys("H", "shift+left"), key.WithHelp("H", "prev week")),
		NextWeek: key.NewBinding(key.WithKeys("L", "shift+right"), key.WithHelp("L", "next week")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),

		Backlog: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "backlog")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Move:    key.NewBinding(key.WithKeys("m", "enter"), key.WithHelp("m", "move")),
		Resize:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resize")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle done")),
		Drop:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unschedule")),
		AllDay:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "drop on day")),
		Plan:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "auto-plan")),
		Import:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "import calendars")),
		Focus:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "focus timer")),
		Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy title")),

		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Move, k.Plan, k.Focus, k.Backlog, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PrevWeek, k.NextWeek, k.Today},
		{k.Move, k.Resize, k.Toggle, k.Drop, k.Plan, k.Import},
		{k.Backlog, k.Add, k.Focus, k.Copy, k.Quit},
	}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeBacklog:
		return m.handleBacklogKeys(msg)
	case ModeMove:
		return m.handleMoveKeys(msg)
	case ModeResize:
		return m.handleResizeKeys(msg)
	case ModeTimer:
		return m.handleTimerKeys(msg)
	case ModeInput:
		return m.handleInputKeys(msg)
	default:
		return m.handleWeekKeys(msg)
	}
}

// handleWeekKeys handles keys in the week grid.
func (m Model) handleWeekKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Left):
		if m.cursor.Day > 0 {
			m.cursor.Day--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursor.Day < 6 {
			m.cursor.Day++
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor.Hour < m.lastHour() {
			m.cursor.Hour++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor.Hour > m.firstHour() {
			m.cursor.Hour--
		}

	case key.Matches(msg, m.keys.PrevWeek):
		m.weekStart = m.weekStart.AddDate(0, 0, -7)
		m.loading = true
		return m, loadWeek(m.repo, m.weekStart)
	case key.Matches(msg, m.keys.NextWeek):
		m.weekStart = m.weekStart.AddDate(0, 0, 7)
		m.loading = true
		return m, loadWeek(m.repo, m.weekStart)
	case key.Matches(msg, m.keys.Today):
		now := time.Now()
		m.weekStart = dateutil.StartOfWeek(now)
		m.cursor = Position{Day: int(now.Weekday()), Hour: m.firstHour()}
		m.loading = true
		return m, loadWeek(m.repo, m.weekStart)

	case key.Matches(msg, m.keys.Backlog):
		m.mode = ModeBacklog
		return m, nil

	case key.Matches(msg, m.keys.Add):
		m.mode = ModeInput
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Move):
		t := m.taskAtCursor()
		if t == nil {
			return m, m.setStatus("No task here")
		}
		m.mode = ModeMove
		m.moveTask = t
		m.moveDay = m.cursor.Day
		m.moveHour = m.cursor.Hour
		m.fromBacklog = false
		return m, m.setStatus(fmt.Sprintf("Moving %q (enter to place, d for all-day, esc to cancel)", t.Title))

	case key.Matches(msg, m.keys.Resize):
		t := m.taskAtCursor()
		if t == nil {
			return m, m.setStatus("No task here")
		}
		m.mode = ModeResize
		m.resizeTask = t
		m.resizeBase = scheduler.EffectiveDuration(t.EstimatedMinutes)
		m.resizeDelta = 0
		return m, m.setStatus(fmt.Sprintf("Resizing %q (j/k ±15m, enter to commit)", t.Title))

	case key.Matches(msg, m.keys.Toggle):
		return m.toggleDone()

	case key.Matches(msg, m.keys.Drop):
		t := m.taskAtCursor()
		if t == nil {
			return m, m.setStatus("No task here")
		}
		if err := m.repo.UnscheduleTask(context.Background(), t.ID); err != nil {
			return m, m.setStatus(fmt.Sprintf("Error: %v", err))
		}
		m.loading = true
		return m, tea.Batch(m.setStatus(fmt.Sprintf("Sent %q to backlog", t.Title)), loadWeek(m.repo, m.weekStart))

	case key.Matches(msg, m.keys.Plan):
		if m.planning {
			return m, m.setStatus("Auto-plan already running")
		}
		m.planning = true
		return m, tea.Batch(m.setStatus("Planning..."),
			runAutoPlan(m.repo, m.window, m.weekStart, m.cfg.Schedule.HorizonDays))

	case key.Matches(msg, m.keys.Import):
		if m.importing {
			return m, m.setStatus("Import already running")
		}
		m.importing = true
		return m, tea.Batch(m.setStatus("Importing calendars..."),
			importCalendars(m.repo, m.weekStart, m.cfg.Schedule.HorizonDays))

	case key.Matches(msg, m.keys.Focus):
		return m.startFocus(m.taskAtCursor())

	case key.Matches(msg, m.keys.Copy):
		t := m.taskAtCursor()
		if t == nil {
			return m, m.setStatus("No task here")
		}
		if err := clipboard.WriteAll(t.Title); err != nil {
			return m, m.setStatus(fmt.Sprintf("Copy failed: %v", err))
		}
		return m, m.setStatus("Copied task title")

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// handleBacklogKeys handles keys while the backlog pane is focused.
func (m Model) handleBacklogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Backlog):
		m.mode = ModeWeek
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.backlogCursor < len(m.backlog)-1 {
			m.backlogCursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.backlogCursor > 0 {
			m.backlogCursor--
		}

	case key.Matches(msg, m.keys.Move):
		item := m.selectedBacklogItem()
		if item == nil {
			return m, m.setStatus("Backlog is empty")
		}
		m.mode = ModeMove
		m.moveTask = item.Task
		m.moveDay = m.cursor.Day
		m.moveHour = m.cursor.Hour
		m.fromBacklog = true
		return m, m.setStatus(fmt.Sprintf("Placing %q (enter to place, esc to cancel)", item.Task.Title))

	case key.Matches(msg, m.keys.Plan):
		if m.planning {
			return m, m.setStatus("Auto-plan already running")
		}
		m.planning = true
		return m, tea.Batch(m.setStatus("Planning..."),
			runAutoPlan(m.repo, m.window, m.weekStart, m.cfg.Schedule.HorizonDays))

	case key.Matches(msg, m.keys.Focus):
		item := m.selectedBacklogItem()
		if item == nil {
			return m, m.setStatus("Backlog is empty")
		}
		return m.startFocus(item.Task)
	}

	return m, nil
}

// handleMoveKeys handles keys while a task is being moved.
func (m Model) handleMoveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = ModeWeek
		m.moveTask = nil
		return m, m.setStatus("Move cancelled")

	case key.Matches(msg, m.keys.Left):
		if m.moveDay > 0 {
			m.moveDay--
		}
	case key.Matches(msg, m.keys.Right):
		if m.moveDay < 6 {
			m.moveDay++
		}
	case key.Matches(msg, m.keys.Down):
		if m.moveHour < m.lastHour() {
			m.moveHour++
		}
	case key.Matches(msg, m.keys.Up):
		if m.moveHour > m.firstHour() {
			m.moveHour--
		}

	case key.Matches(msg, m.keys.Confirm):
		at := scheduler.DropOnHour(m.dayAt(m.moveDay), m.moveHour)
		return m.commitMove(at)

	case key.Matches(msg, m.keys.AllDay):
		at := scheduler.DropOnDay(m.dayAt(m.moveDay))
		return m.commitMove(at)
	}

	return m, nil
}

// handleResizeKeys handles keys while a task is being resized.
func (m Model) handleResizeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = ModeWeek
		m.resizeTask = nil
		return m, m.setStatus("Resize cancelled")

	case key.Matches(msg, m.keys.Down):
		m.resizeDelta += scheduler.SlotStep
	case key.Matches(msg, m.keys.Up):
		m.resizeDelta -= scheduler.SlotStep

	case key.Matches(msg, m.keys.Confirm):
		minutes := scheduler.ResizeCommit(scheduler.ResizePreview(m.resizeBase, m.resizeDelta))
		taskID := m.resizeTask.ID
		title := m.resizeTask.Title
		m.mode = ModeWeek
		m.resizeTask = nil
		if err := m.repo.SetTaskDuration(context.Background(), taskID, minutes); err != nil {
			return m, m.setStatus(fmt.Sprintf("Error: %v", err))
		}
		m.loading = true
		return m, tea.Batch(m.setStatus(fmt.Sprintf("%s is now %dm", title, minutes)),
			loadWeek(m.repo, m.weekStart))
	}

	return m, nil
}

// handleTimerKeys handles keys on the focus timer screen.
func (m Model) handleTimerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		switch m.focus.State() {
		case timer.Running:
			if err := m.focus.Pause(); err != nil {
				return m, m.setStatus(fmt.Sprintf("Error: %v", err))
			}
		case timer.Paused:
			if err := m.focus.Resume(); err != nil {
				return m, m.setStatus(fmt.Sprintf("Error: %v", err))
			}
		}
		return m, nil

	case "enter":
		return m.finishFocus(true, "")

	case "x", "esc":
		return m.finishFocus(false, "interrupted")
	}

	return m, nil
}

// handleInputKeys handles keys in the quick-add input.
func (m Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeWeek
		m.input.Blur()
		m.input.SetValue("")
		return m, nil

	case "enter":
		value := m.input.Value()
		m.mode = ModeWeek
		m.input.Blur()
		m.input.SetValue("")
		return m.quickAdd(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// commitMove persists the pending move at the given instant.
func (m Model) commitMove(at time.Time) (tea.Model, tea.Cmd) {
	t := m.moveTask
	m.mode = ModeWeek
	m.moveTask = nil
	if t == nil {
		return m, nil
	}
	if err := m.repo.ScheduleTask(context.Background(), t.ID, at); err != nil {
		return m, m.setStatus(fmt.Sprintf("Error: %v", err))
	}
	m.loading = true
	return m, tea.Batch(m.setStatus(fmt.Sprintf("Placed %q at %s", t.Title, at.Format("Mon 15:04"))),
		loadWeek(m.repo, m.weekStart))
}

// toggleDone flips the completion status of the task under the cursor.
func (m Model) toggleDone() (tea.Model, tea.Cmd) {
	t := m.taskAtCursor()
	if t == nil {
		return m, m.setStatus("No task here")
	}
	o, ok := m.owners[t.ID]
	if !ok {
		return m, m.setStatus("Task has no project")
	}

	next := task.StatusCompleted
	if t.IsCompleted() {
		next = task.StatusTodo
	}

	ctx := context.Background()
	p, err := m.repo.GetProject(ctx, o.ProjectID)
	if err != nil {
		return m, m.setStatus(fmt.Sprintf("Error: %v", err))
	}
	forest := task.Apply(p.Tasks, t.ID, task.Update{Status: &next})
	if err := m.repo.SaveTasks(ctx, p.ID, forest); err != nil {
		return m, m.setStatus(fmt.Sprintf("Error: %v", err))
	}

	m.loading = true
	verb := "Done"
	if next == task.StatusTodo {
		verb = "Reopened"
	}
	return m, tea.Batch(m.setStatus(fmt.Sprintf("%s: %s", verb, t.Title)),
		loadWeek(m.repo, m.weekStart))
}

// startFocus begins a focus block on the given task, or an unstructured
// deep-work block when t is nil.
func (m Model) startFocus(t *task.Task) (tea.Model, tea.Cmd) {
	length := time.Duration(m.cfg.Timer.FocusMinutes) * time.Minute

	var projectID, taskID, title string
	if t != nil {
		o, ok := m.owners[t.ID]
		if !ok {
			return m, m.setStatus("Task has no project")
		}
		projectID = o.ProjectID
		taskID = t.ID
		title = t.Title
	} else {
		p, err := m.ensureProject(task.DeepWorkProjectName)
		if err != nil {
			return m, m.setStatus(fmt.Sprintf("Error: %v", err))
		}
		projectID = p.ID
		title = task.DeepWorkProjectName
	}

	if err := m.focus.Start(projectID, taskID, length); err != nil {
		return m, m.setStatus(fmt.Sprintf("Error: %v", err))
	}
	m.mode = ModeTimer
	m.focusTitle = title
	return m, tick()
}

// finishFocus ends the current focus block, records the session, and
// marks the task done on completion.
func (m Model) finishFocus(completed bool, reason string) (tea.Model, tea.Cmd) {
	taskID := m.focus.TaskID()

	var (
		s   *session.Session
		err error
	)
	if completed {
		s, err = m.focus.Complete()
	} else {
		s, err = m.focus.Interrupt(reason)
	}
	if err != nil {
		m.mode = ModeWeek
		return m, m.setStatus(fmt.Sprintf("Error: %v", err))
	}

	ctx := context.Background()
	if err := m.store.AppendSession(ctx, s); err != nil {
		m.mode = ModeWeek
		return m, m.setStatus(fmt.Sprintf("Error saving session: %v", err))
	}

	if completed && taskID != "" {
		if o, ok := m.owners[taskID]; ok {
			if p, err := m.repo.GetProject(ctx, o.ProjectID); err == nil {
				done := task.StatusCompleted
				forest := task.Apply(p.Tasks, taskID, task.Update{Status: &done})
				_ = m.repo.SaveTasks(ctx, p.ID, forest)
			}
		}
	}

	m.mode = ModeWeek
	m.focusTitle = ""
	m.loading = true
	verb := "Interrupted"
	if completed {
		verb = "Completed"
	}
	return m, tea.Batch(
		m.setStatus(fmt.Sprintf("%s focus block (%dm focused)", verb, s.ActualMinutes)),
		loadWeek(m.repo, m.weekStart))
}

// quickAdd parses the input and appends the task to the Inbox.
func (m Model) quickAdd(value string) (tea.Model, tea.Cmd) {
	if value == "" {
		return m, nil
	}

	qa := task.ParseQuickAdd(value, time.Now())
	t, err := task.New(qa.Title, qa.EstimatedMinutes)
	if err != nil {
		return m, m.setStatus(fmt.Sprintf("Error: %v", err))
	}
	if qa.Day != nil {
		at := qa.Day.Add(time.Duration(m.window.StartMinute()) * time.Minute)
		t.ScheduledAt = &at
	}

	p, err := m.ensureProject(task.InboxProjectName)
	if err != nil {
		return m, m.setStatus(fmt.Sprintf("Error: %v", err))
	}
	if err := m.repo.SaveTasks(context.Background(), p.ID, task.Attach(p.Tasks, "", t)); err != nil {
		return m, m.setStatus(fmt.Sprintf("Error: %v", err))
	}

	m.loading = true
	return m, tea.Batch(m.setStatus(fmt.Sprintf("Added %q", t.Title)),
		loadWeek(m.repo, m.weekStart))
}

// ensureProject resolves a project by name, creating it when missing.
func (m Model) ensureProject(name string) (*task.Project, error) {
	for _, p := range m.projects {
		if p.Name == name {
			return p, nil
		}
	}
	p, err := task.NewProject(name, "")
	if err != nil {
		return nil, err
	}
	if err := m.repo.CreateProject(context.Background(), p); err != nil {
		return nil, err
	}
	return p, nil
}
