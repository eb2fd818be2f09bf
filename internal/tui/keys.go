package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for each focus of the task list UI.
type KeyMap struct {
	// Input line.
	Submit     key.Binding
	LeaveInput key.Binding

	// List navigation and mutations.
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	Edit       key.Binding
	Delete     key.Binding
	FocusInput key.Binding
	ClearAll   key.Binding

	// Filters.
	FilterAll       key.Binding
	FilterCompleted key.Binding
	FilterPending   key.Binding
	FilterNext      key.Binding

	// Edit session. Enter inserts a newline; saving needs an explicit
	// chord because terminals cannot report ctrl+enter.
	SaveEdit   key.Binding
	BlurEdit   key.Binding
	CancelEdit key.Binding

	// Clear-all confirmation.
	Confirm key.Binding
	Decline key.Binding

	Quit      key.Binding
	ForceQuit key.Binding
}

var DefaultKeyMap = KeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "add task"),
	),
	LeaveInput: key.NewBinding(
		key.WithKeys("esc", "tab", "down"),
		key.WithHelp("tab", "go to list"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space", "toggle"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e", "enter"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	FocusInput: key.NewBinding(
		key.WithKeys("a", "i", "tab"),
		key.WithHelp("a", "add"),
	),
	ClearAll: key.NewBinding(
		key.WithKeys("C"),
		key.WithHelp("C", "clear all"),
	),
	FilterAll: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "all"),
	),
	FilterCompleted: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "completed"),
	),
	FilterPending: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "pending"),
	),
	FilterNext: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "next filter"),
	),
	SaveEdit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	BlurEdit: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "save and leave"),
	),
	CancelEdit: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "yes"),
	),
	Decline: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n", "no"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
}
