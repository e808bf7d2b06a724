// Package tui provides the kanban board for taskflow.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal     Mode = iota // Default navigation mode
	ModeDrag                   // A card is picked up
	ModeFilter                 // Text filtering mode
	ModeConfirm                // Delete confirmation
	ModeInputTitle             // Title input for a new task
	ModeHelp                   // Help overlay mode
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeDrag:
		return "drag"
	case ModeFilter:
		return "filter"
	case ModeConfirm:
		return "confirm"
	case ModeInputTitle:
		return "input_title"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

// IsInputMode returns true if the mode accepts text input.
func (m Mode) IsInputMode() bool {
	switch m {
	case ModeFilter, ModeInputTitle:
		return true
	case ModeNormal, ModeDrag, ModeConfirm, ModeHelp:
		return false
	}
	return false
}
