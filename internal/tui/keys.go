package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Pickup  key.Binding
	Drop    key.Binding
	Cancel  key.Binding
	Open    key.Binding
	Comment key.Binding
	Invoice key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Left:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "left")),
		Right:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "right")),
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Pickup:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pick up")),
		Drop:    key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space/enter", "drop")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Comment: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
		Invoice: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "invoice")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap for the idle board.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pickup, k.Open, k.Comment, k.Invoice, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Pickup, k.Drop, k.Cancel},
		{k.Open, k.Comment, k.Invoice, k.Quit},
	}
}

// dragKeys is the help shown while a card is picked up.
type dragKeys struct{ keyMap }

func (k dragKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Drop, k.Cancel}
}
