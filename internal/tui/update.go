package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case weekLoadedMsg:
		m.projects = msg.projects
		m.scheduled = msg.scheduled
		m.rebuildIndex()
		m.loading = false
		return m, nil

	case planDoneMsg:
		m.planning = false
		m.loading = true
		status := fmt.Sprintf("Planned %d tasks", msg.placed)
		if msg.remaining > 0 {
			status = fmt.Sprintf("Planned %d tasks, %d did not fit", msg.placed, msg.remaining)
		}
		return m, tea.Batch(m.setStatus(status), loadWeek(m.repo, m.weekStart))

	case importDoneMsg:
		m.importing = false
		m.loading = true
		return m, tea.Batch(m.setStatus(fmt.Sprintf("Imported %d events", msg.added)),
			loadWeek(m.repo, m.weekStart))

	case errMsg:
		m.err = msg.err
		m.planning = false
		m.importing = false
		m.loading = false
		return m, m.setStatus(fmt.Sprintf("Error: %v", msg.err))

	case clearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil

	case tickMsg:
		if m.mode != ModeTimer {
			return m, nil
		}
		// The timer never transitions on its own; keep ticking so the
		// countdown repaints until the block is completed or interrupted.
		return m, tick()
	}

	return m, nil
}
