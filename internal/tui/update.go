package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/usecase"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case MsgLoaded:
		if msg.Err != nil {
			m.err = errors.New(domain.UserMessage(msg.Err, "could not load tasks"))
		}
		m.refreshColumns()
		return m, nil

	case MsgCommitted:
		m.refreshColumns()
		if msg.Err != nil {
			if errors.Is(msg.Err, domain.ErrDetached) {
				return m, nil
			}
			m.err = fmt.Errorf("%s failed: %s", msg.Op, domain.UserMessage(msg.Err, "server error"))
			return m, nil
		}
		return m, nil

	case MsgCreated:
		m.creating = false
		if msg.Err != nil {
			// Keep the form and the typed title so the user can retry.
			m.err = errors.New(domain.UserMessage(msg.Err, "could not create task"))
			return m, nil
		}
		if m.mode == ModeInputTitle {
			m.mode = ModeNormal
		}
		m.titleInput.Reset()
		m.titleInput.Blur()
		m.refreshColumns()
		m.selectTask(msg.Task.ID)
		return m, m.setNotice("Created " + msg.Task.Title)

	case MsgThemeChanged:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.theme = msg.Theme
		m.styles = NewStyles(msg.Theme)
		return m, m.setNotice("Theme: " + string(msg.Theme))

	case MsgTick:
		// Skip the reload while a card is in hand; the next tick picks it up.
		if m.mode == ModeDrag {
			return m, m.tick()
		}
		return m, tea.Batch(m.loadTasks(), m.tick())

	case MsgClearNotice:
		m.notice = ""
		return m, nil
	}

	return m, nil
}

// handleKeyMsg routes key presses by mode.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear error on any key press
	if m.err != nil {
		m.err = nil
	}

	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch m.mode {
	case ModeNormal:
		return m.handleNormalMode(msg)
	case ModeDrag:
		return m.handleDragMode(msg)
	case ModeFilter:
		return m.handleFilterMode(msg)
	case ModeConfirm:
		return m.handleConfirmMode(msg)
	case ModeInputTitle:
		return m.handleInputTitleMode(msg)
	case ModeHelp:
		return m.handleHelpMode(msg)
	}

	return m, nil
}

// handleNormalMode handles keys in normal mode.
func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Up):
		if m.rows[m.col] > 0 {
			m.rows[m.col]--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.rows[m.col] < len(m.cols[m.col].Tasks)-1 {
			m.rows[m.col]++
		}
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.col < len(m.cols)-1 {
			m.col++
		}
		return m, nil

	case key.Matches(msg, m.keys.Grab):
		task := m.SelectedTask()
		if task == nil {
			return m, nil
		}
		if err := m.board.BeginDrag(task.ID); err != nil {
			m.err = err
			return m, nil
		}
		m.mode = ModeDrag
		return m, nil

	case key.Matches(msg, m.keys.Cycle):
		task := m.SelectedTask()
		if task == nil {
			return m, nil
		}
		p, err := m.board.StartCycle(task.ID)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.refreshColumns()
		m.selectTask(task.ID)
		return m, m.commit(p, "cycle")

	case key.Matches(msg, m.keys.New):
		m.mode = ModeInputTitle
		m.titleInput.Reset()
		m.titleInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		task := m.SelectedTask()
		if task == nil {
			return m, nil
		}
		m.confirmTaskID = task.ID
		m.mode = ModeConfirm
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.mode = ModeFilter
		m.filterInput.SetValue(m.filter.Query)
		m.filterInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Priority):
		m.filter.Priority = nextPriorityFilter(m.filter.Priority)
		m.refreshColumns()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadTasks()

	case key.Matches(msg, m.keys.Theme):
		if m.setTheme == nil {
			return m, nil
		}
		return m, m.toggleTheme()

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if !m.filter.IsZero() {
			m.filter = domain.TaskFilter{}
			m.filterInput.Reset()
			m.refreshColumns()
		}
		return m, nil
	}

	return m, nil
}

// handleDragMode handles keys while a card is held. Left and right move the
// drop target; the card itself stays in its column until dropped.
func (m *Model) handleDragMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.col < len(m.cols)-1 {
			m.col++
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		id := m.board.Dragging()
		m.board.CancelDrag()
		m.mode = ModeNormal
		m.selectTask(id)
		return m, nil

	case key.Matches(msg, m.keys.Drop), key.Matches(msg, m.keys.Grab):
		id := m.board.Dragging()
		m.mode = ModeNormal
		outcome, p, err := m.board.StartDrop(m.focusedStatus())
		if err != nil {
			m.err = errors.New(domain.UserMessage(err, "drop failed"))
			m.refreshColumns()
			return m, nil
		}
		m.refreshColumns()
		m.selectTask(id)
		if outcome != usecase.DropMoved {
			return m, nil
		}
		return m, m.commit(p, "move")
	}

	return m, nil
}

// handleFilterMode handles keys in filter mode. The board narrows as the
// query is typed.
func (m *Model) handleFilterMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = ModeNormal
		m.filterInput.Reset()
		m.filterInput.Blur()
		m.filter.Query = ""
		m.refreshColumns()
		return m, nil

	case msg.Type == tea.KeyEnter:
		m.mode = ModeNormal
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.filter.Query = strings.TrimSpace(m.filterInput.Value())
	m.refreshColumns()
	return m, cmd
}

// handleConfirmMode handles keys in confirm mode.
func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), msg.String() == "n", msg.String() == "N":
		m.mode = ModeNormal
		m.confirmTaskID = ""
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		id := m.confirmTaskID
		m.mode = ModeNormal
		m.confirmTaskID = ""
		// The dialog was the confirmation.
		p, err := m.board.Collection().ApplyRemove(id, domain.AlwaysConfirm)
		if err != nil {
			m.err = errors.New(domain.UserMessage(err, "delete failed"))
			return m, nil
		}
		m.refreshColumns()
		return m, m.commit(p, "delete")
	}

	return m, nil
}

// handleInputTitleMode handles keys in title input mode.
func (m *Model) handleInputTitleMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = ModeNormal
		m.titleInput.Reset()
		m.titleInput.Blur()
		return m, nil

	case msg.Type == tea.KeyEnter:
		title := strings.TrimSpace(m.titleInput.Value())
		if title == "" || m.creating {
			return m, nil
		}
		m.creating = true
		return m, m.createTask(title)
	}

	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

// handleHelpMode handles keys in help mode.
func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.mode = ModeNormal
	}
	return m, nil
}

// nextPriorityFilter cycles all → low → medium → high → urgent → all.
func nextPriorityFilter(p domain.Priority) domain.Priority {
	all := domain.AllPriorities()
	if p == "" || p == domain.FilterAll {
		return all[0]
	}
	for i, v := range all {
		if v == p && i+1 < len(all) {
			return all[i+1]
		}
	}
	return domain.FilterAll
}
