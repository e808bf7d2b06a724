package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/taskflow/internal/domain"
)

const minColumnWidth = 24

// View renders the model.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.mode == ModeHelp {
		return m.viewHelp()
	}
	return m.viewMain()
}

// viewMain renders the board with its header, overlays and footer.
func (m *Model) viewMain() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	switch {
	case m.mode == ModeFilter:
		b.WriteString(m.styles.InputPrompt.Render("Filter: "))
		b.WriteString(m.filterInput.View())
		b.WriteString("\n")
	case !m.filter.IsZero():
		b.WriteString(m.styles.Footer.Render("Filtered: "+describeFilter(m.filter)+"  (esc to clear)") + "\n")
	}

	b.WriteString(m.viewColumns())
	b.WriteString("\n")

	switch m.mode {
	case ModeNormal, ModeDrag, ModeFilter, ModeHelp:
		// No overlay for these modes
	case ModeConfirm:
		b.WriteString(m.viewConfirmDialog())
		b.WriteString("\n")
	case ModeInputTitle:
		b.WriteString(m.viewTitleInput())
		b.WriteString("\n")
	}

	b.WriteString(m.viewStatusLine())
	b.WriteString("\n")
	b.WriteString(m.viewFooter())

	return b.String()
}

// viewHeader renders the title, the visible task count and the user.
func (m *Model) viewHeader() string {
	title := m.styles.Header.Render("TaskFlow")

	visible := 0
	for _, c := range m.cols {
		visible += len(c.Tasks)
	}
	right := fmt.Sprintf("showing %d of %d tasks", visible, m.board.Collection().Len())
	if m.userName != "" {
		right += " · " + m.userName
	}
	rightText := m.styles.HeaderUser.Render(right)

	spacing := m.width - lipgloss.Width(title) - lipgloss.Width(rightText)
	if spacing < 1 {
		spacing = 1
	}
	return title + strings.Repeat(" ", spacing) + rightText
}

// columnWidth returns the inner width of one column.
func (m *Model) columnWidth() int {
	n := len(m.cols)
	if n == 0 {
		return minColumnWidth
	}
	// 4 = border + padding on each column
	w := m.width/n - 4
	if w < minColumnWidth {
		w = minColumnWidth
	}
	return w
}

// viewColumns renders the status columns side by side.
func (m *Model) viewColumns() string {
	dragging := m.board.Dragging()
	width := m.columnWidth()
	now := time.Now()

	rendered := make([]string, 0, len(m.cols))
	for ci, c := range m.cols {
		var b strings.Builder
		header := fmt.Sprintf("%s %s (%d)", StatusIcon(c.Status), c.Status.Display(), len(c.Tasks))
		b.WriteString(m.styles.ColumnTitle.Inherit(m.styles.StatusStyle(c.Status)).Render(header))
		b.WriteString("\n")

		if len(c.Tasks) == 0 {
			b.WriteString(m.styles.CardMeta.Render("No tasks"))
		}
		for ri, t := range c.Tasks {
			selected := ci == m.col && ri == m.rows[ci] && m.mode != ModeDrag
			b.WriteString(m.renderCard(t, width, selected, t.ID == dragging, now))
			b.WriteString("\n")
		}

		style := m.styles.Column
		switch {
		case m.mode == ModeDrag && ci == m.col:
			style = m.styles.ColumnTarget
		case ci == m.col:
			style = m.styles.ColumnFocused
		}
		rendered = append(rendered, style.Width(width).Render(strings.TrimRight(b.String(), "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// renderCard renders one task as a two-line card.
func (m *Model) renderCard(t *domain.Task, width int, selected, dragged bool, now time.Time) string {
	title := truncate(t.Title, width-3)
	line1 := m.styles.PriorityStyle(t.Priority).Render(PriorityIcon(t.Priority)) + " " + title

	meta := []string{t.Priority.Display()}
	if t.Category != "" {
		meta = append(meta, t.Category)
	}
	line2 := m.styles.CardMeta.Render(strings.Join(meta, " · "))
	if t.HasDueDate() {
		due := "due " + t.DueDate.Local().Format("Jan 2")
		if t.IsOverdue(now) {
			line2 += " " + m.styles.Overdue.Render(due+" (overdue)")
		} else {
			line2 += " " + m.styles.CardMeta.Render(due)
		}
	}

	style := m.styles.Card
	switch {
	case dragged:
		style = m.styles.CardDragged
	case selected:
		style = m.styles.CardSelected
	}
	return style.Render(line1 + "\n" + line2)
}

// viewConfirmDialog renders the delete confirmation.
func (m *Model) viewConfirmDialog() string {
	title := m.confirmTaskID
	if t := m.board.Collection().Get(m.confirmTaskID); t != nil {
		title = t.Title
	}
	body := m.styles.DialogTitle.Render("Delete task?") + "\n\n" +
		truncate(title, 60) + "\n\n" +
		m.styles.Footer.Render("y confirm · n/esc cancel")
	return m.styles.Dialog.Render(body)
}

// viewTitleInput renders the new task prompt.
func (m *Model) viewTitleInput() string {
	hint := "enter create · esc cancel"
	if m.creating {
		hint = "Creating..."
	}
	body := m.styles.DialogTitle.Render("New task in "+m.focusedStatus().Display()) + "\n\n" +
		m.titleInput.View() + "\n\n" +
		m.styles.Footer.Render(hint)
	return m.styles.Dialog.Render(body)
}

// viewStatusLine renders the error or notice line.
func (m *Model) viewStatusLine() string {
	switch {
	case m.err != nil:
		return m.styles.ErrorMsg.Render("Error: " + m.err.Error())
	case m.mode == ModeDrag:
		return m.styles.Notice.Render("Drop into " + m.focusedStatus().Display() + " with enter, esc to cancel")
	case m.notice != "":
		return m.styles.Notice.Render(m.notice)
	}
	return ""
}

// viewFooter renders the short key help.
func (m *Model) viewFooter() string {
	switch m.mode {
	case ModeNormal, ModeDrag:
		return m.styles.Footer.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
	case ModeFilter:
		return m.styles.Footer.Render("enter apply · esc clear")
	case ModeConfirm, ModeInputTitle, ModeHelp:
		// Hints are shown in the dialogs themselves
	}
	return ""
}

// viewHelp renders the full key reference.
func (m *Model) viewHelp() string {
	title := m.styles.DialogTitle.Render("KEYBOARD SHORTCUTS")
	return m.styles.Help.Render(title + "\n\n" + m.help.FullHelpView(m.keys.FullHelp()) + "\n\n" +
		m.styles.Footer.Render("esc or ? to close"))
}

func describeFilter(f domain.TaskFilter) string {
	var parts []string
	if f.Query != "" {
		parts = append(parts, fmt.Sprintf("%q", f.Query))
	}
	if f.Status != "" && f.Status != domain.FilterAll {
		parts = append(parts, "status="+string(f.Status))
	}
	if f.Priority != "" && f.Priority != domain.FilterAll {
		parts = append(parts, "priority="+string(f.Priority))
	}
	if f.Category != "" {
		parts = append(parts, "category="+f.Category)
	}
	return strings.Join(parts, " ")
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
