package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the viewer.
type keyMap struct {
	Quit         key.Binding
	Help         key.Binding
	Pause        key.Binding
	Legend       key.Binding
	CycleTheme   key.Binding
	GrowWindow   key.Binding
	ShrinkWindow key.Binding
	FullHistory  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "help"),
		),
		Pause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause/resume"),
		),
		Legend: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "toggle legend"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "cycle theme"),
		),
		GrowWindow: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "wider window"),
		),
		ShrinkWindow: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "narrower window"),
		),
		FullHistory: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "full history"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Legend, k.GrowWindow, k.ShrinkWindow, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Legend, k.FullHistory},
		{k.GrowWindow, k.ShrinkWindow, k.CycleTheme},
		{k.Help, k.Quit},
	}
}
