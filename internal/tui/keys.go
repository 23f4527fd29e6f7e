package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding the client reacts to outside text inputs.
// Inside a form only Submit, Cancel, NextField, PrevField and Quit apply.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	NextTab key.Binding
	PrevTab key.Binding

	Login    key.Binding
	Sales    key.Binding
	Language key.Binding

	Submit    key.Binding
	Cancel    key.Binding
	NextField key.Binding
	PrevField key.Binding

	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Search key.Binding
	Punch  key.Binding
	Status key.Binding
	Reply  key.Binding
	Logout key.Binding
	Reload key.Binding

	Quit key.Binding
}

var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("tab", "right", "l"),
		key.WithHelp("tab", "next tab"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("shift+tab", "left", "h"),
		key.WithHelp("S-tab", "previous tab"),
	),
	Login: key.NewBinding(
		key.WithKeys("enter", "i"),
		key.WithHelp("enter", "sign in"),
	),
	Sales: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "subscribe"),
	),
	Language: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "language"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("S-tab", "previous field"),
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
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Punch: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "punch"),
	),
	Status: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "next status"),
	),
	Reply: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reply"),
	),
	Logout: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "log out"),
	),
	Reload: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reload users"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
}
