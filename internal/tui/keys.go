package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Enter  key.Binding
	Back   key.Binding
	Right  key.Binding
	Tab    key.Binding
	Escape key.Binding

	// Collection actions
	Quit    key.Binding
	Help    key.Binding
	Filter  key.Binding
	New     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Play    key.Binding
	Refresh key.Binding
	Reload  key.Binding

	// Editor actions
	Save      key.Binding
	NextField key.Binding
	PrevField key.Binding
	Cycle     key.Binding
	Clear     key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Remove    key.Binding
	Browse    key.Binding
	Replace   key.Binding
	Duration  key.Binding
	Describe  key.Binding

	// Catalog browser
	Toggle    key.Binding
	SelectAll key.Binding
	Deselect  key.Binding
	AddMarked key.Binding
	AddFolder key.Binding

	// Confirmations
	Confirm key.Binding
	Deny    key.Binding
}

// Keys is the active key map
var Keys = DefaultKeyMap()

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open/edit"),
		),
		Back: key.NewBinding(
			key.WithKeys("h", "left", "backspace"),
			key.WithHelp("h/←", "parent"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "open folder"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch tab"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back/cancel"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Play: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "play"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "drop cache and reload"),
		),

		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "fields/items"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
		),
		Cycle: key.NewBinding(
			key.WithKeys(" ", "right", "l"),
			key.WithHelp("space", "toggle/cycle"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove item"),
		),
		Browse: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add from catalog"),
		),
		Replace: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "replace file"),
		),
		Duration: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "duration"),
		),
		Describe: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "description"),
		),

		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "select all"),
		),
		Deselect: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear selection"),
		),
		AddMarked: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add selected"),
		),
		AddFolder: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "add whole folder"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "cancel"),
		),
	}
}
