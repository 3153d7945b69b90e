package ui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/vuradio/internal/station"
)

// picker is the station selection list shown over the meters.
type picker struct {
	list   list.Model
	open   bool
	chosen int
}

func newPicker(stations []station.Station) picker {
	items := make([]list.Item, len(stations))
	for i, s := range stations {
		items[i] = s
	}
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#00FF00"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#00FF00"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#00FF00"})

	l := list.New(items, delegate, 48, 12)
	l.Title = "Stations"
	l.Styles.Title = headerStyle
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	return picker{list: l, chosen: -1}
}

func (p *picker) show(current, width, height int) {
	p.open = true
	p.chosen = -1
	p.list.ResetFilter()
	p.list.Select(current)
	p.resize(width, height)
}

func (p *picker) resize(width, height int) {
	w, h := width-4, height-6
	if w < 20 {
		w = 20
	}
	if h < 6 {
		h = 6
	}
	p.list.SetSize(w, h)
}

// update handles a key while the picker is open. enter chooses, esc cancels
// (or clears an active filter first).
func (p *picker) update(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok && p.list.FilterState() != list.Filtering {
		switch km.String() {
		case "enter":
			if s, ok := p.list.SelectedItem().(station.Station); ok {
				p.chosen = indexOfItem(p.list.Items(), s)
			}
			p.open = false
			return nil
		case "esc", "s":
			if p.list.FilterState() == list.FilterApplied && km.String() == "esc" {
				p.list.ResetFilter()
				return nil
			}
			p.open = false
			return nil
		}
	}
	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return cmd
}

func indexOfItem(items []list.Item, s station.Station) int {
	for i, it := range items {
		if st, ok := it.(station.Station); ok && st == s {
			return i
		}
	}
	return -1
}

func (p picker) view() string {
	return p.list.View()
}
