package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	analyze  key.Binding
	filter   key.Binding
	toggle   key.Binding
	bpm      key.Binding
	copy     key.Binding
	reset    key.Binding
	open     key.Binding
	playlist key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "fetch")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		analyze:  key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a", "analyze")),
		filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filters")),
		toggle:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
		bpm:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bpm range")),
		copy:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset filters")),
		open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open song")),
		playlist: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new playlist")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.analyze, k.filter, k.toggle, k.bpm},
		{k.copy, k.reset, k.open, k.playlist, k.quit},
	}
}
