package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Play     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Stations key.Binding
	VolUp    key.Binding
	VolDown  key.Binding
	Style    key.Binding
	Popout   key.Binding
	Theme    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Play:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n/p", "station")),
		Prev:     key.NewBinding(key.WithKeys("p")),
		Stations: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stations")),
		VolUp:    key.NewBinding(key.WithKeys("+", "=", "up"), key.WithHelp("+/-", "volume")),
		VolDown:  key.NewBinding(key.WithKeys("-", "down")),
		Style:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "style")),
		Popout:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "pop out")),
		Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// popoutKeys trims the map to what the compact player offers.
func popoutKeys() keyMap {
	k := newKeyMap()
	k.Next.SetEnabled(false)
	k.Prev.SetEnabled(false)
	k.Stations.SetEnabled(false)
	k.Popout.SetEnabled(false)
	k.Help.SetEnabled(false)
	return k
}

// hiddenKeys is the map while playback is handed to a pop-out.
func hiddenKeys() keyMap {
	k := newKeyMap()
	k.Popout.SetHelp("o", "focus pop-out")
	for _, b := range []*key.Binding{&k.Play, &k.Next, &k.Prev, &k.Stations, &k.VolUp, &k.VolDown, &k.Style, &k.Help} {
		b.SetEnabled(false)
	}
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Next, k.Style, k.VolUp, k.Popout, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Next, k.Stations},
		{k.VolUp, k.Style, k.Theme},
		{k.Popout, k.Help, k.Quit},
	}
}
