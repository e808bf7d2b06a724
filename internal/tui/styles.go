package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/taskflow/internal/domain"
)

// Palette is the set of colors for one theme.
type Palette struct {
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color
	Text       lipgloss.Color
	TextStrong lipgloss.Color
	Border     lipgloss.Color

	// Status colors
	Todo       lipgloss.Color
	InProgress lipgloss.Color
	Done       lipgloss.Color

	// Priority colors
	Low    lipgloss.Color
	Medium lipgloss.Color
	High   lipgloss.Color
	Urgent lipgloss.Color
}

// DarkPalette is used with the dark theme.
var DarkPalette = Palette{
	Primary:    lipgloss.Color("#818CF8"), // Indigo
	Muted:      lipgloss.Color("#636E72"), // Gray
	Error:      lipgloss.Color("#F87171"), // Red
	Success:    lipgloss.Color("#34D399"), // Green
	Text:       lipgloss.Color("#DFE6E9"),
	TextStrong: lipgloss.Color("#FFEAA7"),
	Border:     lipgloss.Color("#4B5563"),

	Todo:       lipgloss.Color("#74B9FF"),
	InProgress: lipgloss.Color("#FDCB6E"),
	Done:       lipgloss.Color("#00B894"),

	Low:    lipgloss.Color("#94A3B8"),
	Medium: lipgloss.Color("#60A5FA"),
	High:   lipgloss.Color("#FB923C"),
	Urgent: lipgloss.Color("#F87171"),
}

// LightPalette is used with the light theme.
var LightPalette = Palette{
	Primary:    lipgloss.Color("#4F46E5"),
	Muted:      lipgloss.Color("#6B7280"),
	Error:      lipgloss.Color("#DC2626"),
	Success:    lipgloss.Color("#059669"),
	Text:       lipgloss.Color("#1F2937"),
	TextStrong: lipgloss.Color("#111827"),
	Border:     lipgloss.Color("#D1D5DB"),

	Todo:       lipgloss.Color("#2563EB"),
	InProgress: lipgloss.Color("#D97706"),
	Done:       lipgloss.Color("#059669"),

	Low:    lipgloss.Color("#64748B"),
	Medium: lipgloss.Color("#2563EB"),
	High:   lipgloss.Color("#EA580C"),
	Urgent: lipgloss.Color("#DC2626"),
}

// Styles contains all the lipgloss styles for the board.
type Styles struct {
	// Header
	Header     lipgloss.Style
	HeaderUser lipgloss.Style

	// Columns
	Column        lipgloss.Style
	ColumnFocused lipgloss.Style
	ColumnTarget  lipgloss.Style // Focused column while dragging
	ColumnTitle   lipgloss.Style

	// Cards
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardDragged  lipgloss.Style
	CardMeta     lipgloss.Style
	Overdue      lipgloss.Style

	// Status badges
	StatusTodo       lipgloss.Style
	StatusInProgress lipgloss.Style
	StatusDone       lipgloss.Style

	// Priority badges
	PriorityLow    lipgloss.Style
	PriorityMedium lipgloss.Style
	PriorityHigh   lipgloss.Style
	PriorityUrgent lipgloss.Style

	// Footer
	Footer   lipgloss.Style
	Notice   lipgloss.Style
	ErrorMsg lipgloss.Style

	// Dialog
	Dialog      lipgloss.Style
	DialogTitle lipgloss.Style
	InputPrompt lipgloss.Style
	Help        lipgloss.Style
}

// NewStyles returns the styles for a theme. Unknown themes use dark.
func NewStyles(theme domain.Theme) Styles {
	p := DarkPalette
	if theme == domain.ThemeLight {
		p = LightPalette
	}

	column := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border)

	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),
		HeaderUser: lipgloss.NewStyle().
			Foreground(p.Muted),

		Column:        column,
		ColumnFocused: column.BorderForeground(p.Primary),
		ColumnTarget: column.
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(p.Success),
		ColumnTitle: lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1),

		Card: lipgloss.NewStyle().
			Foreground(p.Text).
			PaddingLeft(1),
		CardSelected: lipgloss.NewStyle().
			Foreground(p.TextStrong).
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(p.Primary),
		CardDragged: lipgloss.NewStyle().
			Foreground(p.Success).
			Bold(true).
			Italic(true).
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(p.Success),
		CardMeta: lipgloss.NewStyle().
			Foreground(p.Muted),
		Overdue: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),

		StatusTodo:       lipgloss.NewStyle().Foreground(p.Todo),
		StatusInProgress: lipgloss.NewStyle().Foreground(p.InProgress),
		StatusDone:       lipgloss.NewStyle().Foreground(p.Done),

		PriorityLow:    lipgloss.NewStyle().Foreground(p.Low),
		PriorityMedium: lipgloss.NewStyle().Foreground(p.Medium),
		PriorityHigh:   lipgloss.NewStyle().Foreground(p.High),
		PriorityUrgent: lipgloss.NewStyle().Foreground(p.Urgent).Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(p.Muted),
		Notice: lipgloss.NewStyle().
			Foreground(p.Success),
		ErrorMsg: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),

		Dialog: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary),
		DialogTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),
		InputPrompt: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),
		Help: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Muted),
	}
}

// StatusStyle returns the style for a given status.
func (s Styles) StatusStyle(status domain.Status) lipgloss.Style {
	switch status {
	case domain.StatusInProgress:
		return s.StatusInProgress
	case domain.StatusDone:
		return s.StatusDone
	default:
		return s.StatusTodo
	}
}

// PriorityStyle returns the style for a given priority.
func (s Styles) PriorityStyle(p domain.Priority) lipgloss.Style {
	switch p {
	case domain.PriorityLow:
		return s.PriorityLow
	case domain.PriorityHigh:
		return s.PriorityHigh
	case domain.PriorityUrgent:
		return s.PriorityUrgent
	default:
		return s.PriorityMedium
	}
}

// StatusIcon returns an icon for a given status.
func StatusIcon(status domain.Status) string {
	switch status {
	case domain.StatusTodo:
		return "○"
	case domain.StatusInProgress:
		return "●"
	case domain.StatusDone:
		return "✓"
	default:
		return "?"
	}
}

// PriorityIcon returns a short marker for a priority.
func PriorityIcon(p domain.Priority) string {
	switch p {
	case domain.PriorityLow:
		return "▁"
	case domain.PriorityMedium:
		return "▃"
	case domain.PriorityHigh:
		return "▅"
	case domain.PriorityUrgent:
		return "█"
	default:
		return " "
	}
}
