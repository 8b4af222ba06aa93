package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the carousel bindings
type KeyMap struct {
	Next      key.Binding
	Previous  key.Binding
	PageLeft  key.Binding
	PageRight key.Binding
	First     key.Binding
	Last      key.Binding
	Search    key.Binding
	Copy      key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the standard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "l", "n", " "),
			key.WithHelp("→/l", "next image"),
		),
		Previous: key.NewBinding(
			key.WithKeys("left", "h", "p"),
			key.WithHelp("←/h", "previous image"),
		),
		PageLeft: key.NewBinding(
			key.WithKeys("[", "shift+left"),
			key.WithHelp("[", "scroll strip left"),
		),
		PageRight: key.NewBinding(
			key.WithKeys("]", "shift+right"),
			key.WithHelp("]", "scroll strip right"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first image"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last image"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "jump by name"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy image url"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload gallery"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Previous, k.Next, k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Previous, k.Next, k.First, k.Last},
		{k.PageLeft, k.PageRight, k.Search},
		{k.Copy, k.Reload, k.Help, k.Quit},
	}
}
