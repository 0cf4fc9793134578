package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Forward key.Binding
	Back    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Start   key.Binding
	End     key.Binding
	Play    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Forward: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "+1 step"),
	),
	Back: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "-1 step"),
	),
	Next: key.NewBinding(
		key.WithKeys("n", "down", "j"),
		key.WithHelp("n/↓", "next activation"),
	),
	Prev: key.NewBinding(
		key.WithKeys("N", "up", "k"),
		key.WithHelp("N/↑", "prev activation"),
	),
	Start: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g", "start"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G", "end"),
	),
	Play: key.NewBinding(
		key.WithKeys(" ", "p"),
		key.WithHelp("space/p", "play/pause"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Forward, k.Next, k.Play, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Forward, k.Back, k.Next, k.Prev},
		{k.Start, k.End, k.Play},
		{k.Help, k.Quit},
	}
}
