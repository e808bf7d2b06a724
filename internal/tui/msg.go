package tui

import "github.com/runoshun/taskflow/internal/domain"

// Msg is the sealed interface for all TUI messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgLoaded is sent when a collection load finishes.
type MsgLoaded struct {
	Err error
}

func (MsgLoaded) sealed() {}

// MsgCommitted is sent when a pending optimistic mutation has been
// reconciled with the server.
type MsgCommitted struct {
	Err    error
	TaskID string
	Op     string // "move", "cycle" or "delete"
}

func (MsgCommitted) sealed() {}

// MsgCreated is sent when a create request finishes.
type MsgCreated struct {
	Task *domain.Task
	Err  error
}

func (MsgCreated) sealed() {}

// MsgThemeChanged is sent after the theme was stored.
type MsgThemeChanged struct {
	Err   error
	Theme domain.Theme
}

func (MsgThemeChanged) sealed() {}

// MsgTick triggers an automatic reload.
type MsgTick struct{}

func (MsgTick) sealed() {}

// MsgClearNotice clears the status line.
type MsgClearNotice struct{}

func (MsgClearNotice) sealed() {}
