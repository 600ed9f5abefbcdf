package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap satisfies help.KeyMap so the footer renders itself from the bindings.
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	View       key.Binding
	FixedPoint key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.View, k.FixedPoint, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.View, k.FixedPoint},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space", "check line"),
	),
	View: key.NewBinding(
		key.WithKeys("tab", "m"),
		key.WithHelp("tab", "lines/map"),
	),
	FixedPoint: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "fixed point"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "apply"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
