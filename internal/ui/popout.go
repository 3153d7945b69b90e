package ui

import (
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/olivier-w/vuradio/internal/dispatch"
	"github.com/olivier-w/vuradio/internal/frame"
	"github.com/olivier-w/vuradio/internal/player"
	"github.com/olivier-w/vuradio/internal/popout"
	"github.com/olivier-w/vuradio/internal/session"
	"github.com/olivier-w/vuradio/internal/theme"
)

// Opener is the pop-out's link back to the window that launched it.
type Opener interface {
	Messages() <-chan popout.Message
	NotifyClosed() error
	Close() error
}

// PopoutOptions wires a PopoutModel. Opener may be nil when the pop-out runs
// without a parent.
type PopoutOptions struct {
	Session      *session.State
	Player       Transport
	Dispatcher   *dispatch.Dispatcher
	Theme        *theme.Preference
	Opener       Opener
	PrefsChanged <-chan struct{}
	StationName  string
	Bell         io.Writer
}

// PopoutModel is the compact player running in its own terminal window.
type PopoutModel struct {
	sess    *session.State
	player  Transport
	disp    *dispatch.Dispatcher
	pref    *theme.Preference
	opener  Opener
	inbox   <-chan popout.Message
	prefsCh <-chan struct{}
	bell    io.Writer

	name       string
	title      string
	connecting bool
	focused    bool
	keys       keyMap
	help       help.Model
	width      int
	height     int
	quitting   bool
}

// NewPopout creates a PopoutModel from opts.
func NewPopout(opts PopoutOptions) PopoutModel {
	m := PopoutModel{
		sess:    opts.Session,
		player:  opts.Player,
		disp:    opts.Dispatcher,
		pref:    opts.Theme,
		opener:  opts.Opener,
		prefsCh: opts.PrefsChanged,
		bell:    opts.Bell,
		name:    opts.StationName,
		keys:    popoutKeys(),
		help:    help.New(),
		width:   popout.PopoutColumns,
		height:  popout.PopoutRows,
	}
	if m.opener != nil {
		m.inbox = m.opener.Messages()
	}
	if m.name == "" {
		m.name = m.sess.Station()
	}
	return m
}

func (m PopoutModel) Init() tea.Cmd {
	lipgloss.SetHasDarkBackground(m.pref.Dark())
	m.sess.SetDark(m.pref.Dark())
	return tea.Batch(
		m.disp.Start(),
		waitPlayerEvent(m.player.Events()),
		waitOpener(m.inbox),
		waitPrefs(m.prefsCh),
		func() tea.Msg { return autoplayMsg{} },
		tea.SetWindowTitle(windowTitle(m.name, false)),
	)
}

func (m PopoutModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m PopoutModel) handleMsg(msg tea.Msg) (PopoutModel, tea.Cmd) {
	switch msg := msg.(type) {
	case frame.Msg:
		return m, m.disp.HandleFrame(msg)

	case autoplayMsg:
		if !m.sess.Playing() {
			m.play()
		}
		return m, nil

	case tea.KeyMsg:
		m.focused = false
		return m.handleKey(msg)

	case playerEventMsg:
		ev := player.Event(msg)
		if ev.Generation == m.player.Generation() {
			switch ev.Kind {
			case player.EventStarted:
				m.connecting = false
			case player.EventTitle:
				m.title = ev.Title
			case player.EventError:
				if m.sess.Playing() {
					log.Error().Err(ev.Err).Msg("pop-out playback failed")
					m.sess.SetPlaying(false)
					m.sess.SetStatus(session.StatusPlaybackError)
					m.connecting = false
				}
			}
		}
		return m, waitPlayerEvent(m.player.Events())

	case openerMsg:
		next := waitOpener(m.inbox)
		if popout.Message(msg).Type != popout.Focus {
			return m, next
		}
		m.focused = true
		if m.bell != nil {
			m.bell.Write([]byte("\a"))
		}
		return m, tea.Batch(next, tea.SetWindowTitle("● "+windowTitle(m.name, !m.sess.Playing())))

	case openerGoneMsg:
		log.Debug().Msg("opener went away; pop-out continues on its own")
		m.inbox = nil
		return m, nil

	case prefsChangedMsg:
		changed, err := m.pref.Reload()
		if err != nil {
			log.Warn().Err(err).Msg("reloading preferences")
		} else if changed {
			lipgloss.SetHasDarkBackground(m.pref.Dark())
			m.sess.SetDark(m.pref.Dark())
		}
		return m, waitPrefs(m.prefsCh)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}
	return m, nil
}

func (m PopoutModel) handleKey(msg tea.KeyMsg) (PopoutModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.shutdown()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case key.Matches(msg, m.keys.Play):
		if m.sess.Playing() {
			m.player.Pause()
			m.sess.SetPlaying(false)
			m.connecting = false
		} else {
			m.play()
		}
		return m, tea.SetWindowTitle(windowTitle(m.name, !m.sess.Playing()))

	case key.Matches(msg, m.keys.VolUp):
		m.sess.SetVolume(m.sess.Volume() + volumeStep)
		m.player.SetVolume(m.sess.Volume())

	case key.Matches(msg, m.keys.VolDown):
		m.sess.SetVolume(m.sess.Volume() - volumeStep)
		m.player.SetVolume(m.sess.Volume())

	case key.Matches(msg, m.keys.Style):
		m.disp.CycleStyle()

	case key.Matches(msg, m.keys.Theme):
		if err := m.pref.Toggle(); err != nil {
			log.Warn().Err(err).Msg("saving theme preference")
		}
		lipgloss.SetHasDarkBackground(m.pref.Dark())
		m.sess.SetDark(m.pref.Dark())
	}
	return m, nil
}

func (m *PopoutModel) play() {
	if err := m.player.Play(); err != nil {
		log.Error().Err(err).Msg("pop-out playback failed")
		m.sess.SetPlaying(false)
		m.sess.SetStatus(session.StatusPlaybackError)
		return
	}
	m.sess.SetPlaying(true)
	m.sess.SetStatus("")
	m.connecting = true
}

// shutdown stops playback and tells the opener this window is closing. The
// notification goes out before the socket is closed.
func (m *PopoutModel) shutdown() {
	m.disp.Stop()
	m.player.Close()
	m.sess.SetPlaying(false)
	if m.opener == nil {
		return
	}
	if err := m.opener.NotifyClosed(); err != nil {
		log.Warn().Err(err).Msg("notifying opener")
	}
	if err := m.opener.Close(); err != nil {
		log.Debug().Err(err).Msg("closing opener socket")
	}
}

func (m PopoutModel) View() string {
	if m.quitting {
		return ""
	}
	w := m.width
	if w < 24 {
		w = popout.PopoutColumns
	}
	h := m.height
	if h < 10 {
		h = popout.PopoutRows
	}

	status := labelStyle.Render("Stopped")
	switch {
	case m.sess.Status() != "":
		status = errorStyle.Render(truncate(m.sess.Status(), w-2))
	case m.connecting && m.sess.Playing():
		status = statusStyle.Render("connecting…")
	case m.title != "" && m.sess.Playing():
		status = nowPlayingStyle.Render(truncate(m.title, w-2))
	case m.sess.Playing():
		status = nowPlayingStyle.Render("Live")
	}

	name := titleStyle.Render(truncate(m.name, w-4))
	if m.focused {
		name = "● " + name
	}

	lines := " " + name + "\n"
	lines += " " + status + "\n"
	lines += lipgloss.NewStyle().PaddingLeft(1).Render(renderMeters(m.disp, w-2, h-9)) + "\n"
	lines += " " + statusStyle.Render(playLabel(m.sess.Playing())) + "  " +
		statusStyle.Render(renderVolumePercent(m.sess.Volume())) + "  " + styleLabel(m.disp.Style()) + "\n"
	lines += " " + m.help.View(m.keys)
	return lines
}
