package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds all TUI key bindings.
type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Quit  key.Binding
	Help  key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "browse event"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "browse event"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send event"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}

// keyBarText renders the context-sensitive key hint string.
func keyBarText(final bool) string {
	if final {
		return keyStyle.Render("q") + keyDescStyle.Render(":quit")
	}
	return keyStyle.Render("↑↓") + keyDescStyle.Render(":browse") + "  " +
		keyStyle.Render("enter") + keyDescStyle.Render(":send") + "  " +
		keyStyle.Render("q") + keyDescStyle.Render(":quit")
}
