package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap_Bindings(t *testing.T) {
	k := DefaultKeyMap()

	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, k.Grab))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyEnter}, k.Drop))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyEsc}, k.Escape))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}, k.Quit))
	assert.True(t, key.Matches(runeKey('h'), k.Left))
	assert.True(t, key.Matches(runeKey('l'), k.Right))
	assert.True(t, key.Matches(runeKey('T'), k.Theme))
	assert.False(t, key.Matches(runeKey('t'), k.Theme))
}

func TestKeyMap_HelpCoversAllBindings(t *testing.T) {
	k := DefaultKeyMap()

	var n int
	for _, group := range k.FullHelp() {
		n += len(group)
	}
	assert.Equal(t, 16, n, "every binding except Confirm appears in full help")
	assert.NotEmpty(t, k.ShortHelp())
}
