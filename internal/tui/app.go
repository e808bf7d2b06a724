package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/usecase"
)

const noticeTimeout = 3 * time.Second

// Options configures a board Model.
type Options struct {
	SetTheme        *usecase.SetTheme // nil disables the theme toggle
	Theme           domain.Theme
	UserName        string
	RefreshInterval time.Duration // 0 disables automatic reloads
}

// Model is the main bubbletea model for the board.
type Model struct {
	// Dependencies (pointers first for alignment)
	board    *usecase.Board
	setTheme *usecase.SetTheme
	err      error

	// State
	cols []usecase.Column

	// Components
	keys   KeyMap
	styles Styles
	help   help.Model

	// Input state
	titleInput  textinput.Model
	filterInput textinput.Model
	filter      domain.TaskFilter

	notice        string
	userName      string
	confirmTaskID string
	theme         domain.Theme
	refresh       time.Duration
	mode          Mode
	width         int
	height        int
	col           int    // Focused column; the drop target while dragging
	rows          [3]int // Selected row per column
	creating      bool   // Create request in flight; the title form stays open
}

// New creates a board Model. The board's collection is loaded by Init.
func New(board *usecase.Board, opts Options) *Model {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 200

	fi := textinput.New()
	fi.Placeholder = "Filter tasks..."
	fi.CharLimit = 100

	theme := opts.Theme
	if !theme.IsValid() {
		theme = domain.ThemeDark
	}

	m := &Model{
		board:       board,
		setTheme:    opts.SetTheme,
		keys:        DefaultKeyMap(),
		styles:      NewStyles(theme),
		help:        help.New(),
		titleInput:  ti,
		filterInput: fi,
		userName:    opts.UserName,
		theme:       theme,
		refresh:     opts.RefreshInterval,
		mode:        ModeNormal,
	}
	m.refreshColumns()
	return m
}

// Init loads the collection and starts the refresh timer.
func (m *Model) Init() tea.Cmd {
	if m.refresh > 0 {
		return tea.Batch(m.loadTasks(), m.tick())
	}
	return m.loadTasks()
}

// Mode returns the current input mode.
func (m *Model) Mode() Mode {
	return m.mode
}

// Err returns the error shown in the status line, if any.
func (m *Model) Err() error {
	return m.err
}

// loadTasks returns a command that reloads the collection from the server.
func (m *Model) loadTasks() tea.Cmd {
	col := m.board.Collection()
	return func() tea.Msg {
		return MsgLoaded{Err: col.Load(context.Background())}
	}
}

// commit returns a command that sends a pending mutation to the server.
// The local change is already visible when it runs.
func (m *Model) commit(p *usecase.Pending, op string) tea.Cmd {
	return func() tea.Msg {
		_, err := p.Commit(context.Background())
		return MsgCommitted{TaskID: p.TaskID(), Op: op, Err: err}
	}
}

// createTask returns a command that creates a task with the given title.
// New tasks land in the focused column.
func (m *Model) createTask(title string) tea.Cmd {
	col := m.board.Collection()
	draft := domain.TaskDraft{
		Title:    title,
		Status:   m.focusedStatus(),
		Priority: domain.PriorityMedium,
	}
	return func() tea.Msg {
		t, err := col.Create(context.Background(), draft)
		return MsgCreated{Task: t, Err: err}
	}
}

// toggleTheme returns a command that stores the other theme.
func (m *Model) toggleTheme() tea.Cmd {
	uc := m.setTheme
	return func() tea.Msg {
		out, err := uc.Execute(context.Background(), usecase.SetThemeInput{})
		if err != nil {
			return MsgThemeChanged{Err: err}
		}
		return MsgThemeChanged{Theme: out.Theme}
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(time.Time) tea.Msg {
		return MsgTick{}
	})
}

func clearNoticeAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return MsgClearNotice{}
	})
}

// setNotice shows msg in the status line for a few seconds.
func (m *Model) setNotice(msg string) tea.Cmd {
	m.notice = msg
	return clearNoticeAfter(noticeTimeout)
}

// refreshColumns regroups the collection under the current filter and
// keeps the selection in range.
func (m *Model) refreshColumns() {
	m.cols = m.board.Columns(m.filter)
	m.clamp()
}

func (m *Model) clamp() {
	if m.col < 0 {
		m.col = 0
	}
	if m.col >= len(m.cols) {
		m.col = len(m.cols) - 1
	}
	for i := range m.cols {
		if i >= len(m.rows) {
			break
		}
		n := len(m.cols[i].Tasks)
		if m.rows[i] >= n {
			m.rows[i] = n - 1
		}
		if m.rows[i] < 0 {
			m.rows[i] = 0
		}
	}
}

func (m *Model) focusedStatus() domain.Status {
	if m.col < 0 || m.col >= len(m.cols) {
		return domain.StatusTodo
	}
	return m.cols[m.col].Status
}

// quit detaches the collection and ends the program.
func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.board.CancelDrag()
	m.board.Collection().Close()
	return m, tea.Quit
}

// SelectedTask returns the task under the cursor, or nil if the focused
// column is empty.
func (m *Model) SelectedTask() *domain.Task {
	if m.col < 0 || m.col >= len(m.cols) {
		return nil
	}
	tasks := m.cols[m.col].Tasks
	row := m.rows[m.col]
	if row < 0 || row >= len(tasks) {
		return nil
	}
	return tasks[row]
}

// selectTask moves the cursor to the task with id, if it is visible.
func (m *Model) selectTask(id string) {
	for ci, c := range m.cols {
		for ri, t := range c.Tasks {
			if t.ID == id {
				m.col = ci
				m.rows[ci] = ri
				return
			}
		}
	}
}
