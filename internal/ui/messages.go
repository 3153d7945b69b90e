package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/vuradio/internal/player"
	"github.com/olivier-w/vuradio/internal/popout"
)

const (
	reconcileInterval = time.Second
	themePollInterval = 5 * time.Second
)

type playerEventMsg player.Event
type openerMsg popout.Message
type openerGoneMsg struct{}
type prefsChangedMsg struct{}
type reconcileMsg time.Time
type themePollMsg struct{ dark bool }

func waitPlayerEvent(ch <-chan player.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		return playerEventMsg(<-ch)
	}
}

// waitOpener relays hub or client messages. A closed channel reports the
// other side as gone.
func waitOpener(ch <-chan popout.Message) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		m, ok := <-ch
		if !ok {
			return openerGoneMsg{}
		}
		return openerMsg(m)
	}
}

func waitPrefs(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return prefsChangedMsg{}
	}
}

func reconcileCmd() tea.Cmd {
	return tea.Tick(reconcileInterval, func(t time.Time) tea.Msg {
		return reconcileMsg(t)
	})
}

// themePollCmd queries the system preference off the update loop.
func themePollCmd(detect func() bool) tea.Cmd {
	return tea.Tick(themePollInterval, func(time.Time) tea.Msg {
		return themePollMsg{dark: detect()}
	})
}
