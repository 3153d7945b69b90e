package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/olivier-w/vuradio/internal/dispatch"
	"github.com/olivier-w/vuradio/internal/frame"
	"github.com/olivier-w/vuradio/internal/player"
	"github.com/olivier-w/vuradio/internal/popout"
	"github.com/olivier-w/vuradio/internal/session"
	"github.com/olivier-w/vuradio/internal/station"
	"github.com/olivier-w/vuradio/internal/theme"
	"github.com/olivier-w/vuradio/internal/util"
)

const volumeStep = 0.05

// Transport is the playback the model drives.
type Transport interface {
	Play() error
	Pause()
	SetStation(url string)
	SetVolume(v float64)
	Events() <-chan player.Event
	Generation() uint64
	Close()
}

// Options wires a Model to its collaborators. Opener and PrefsChanged may be
// nil.
type Options struct {
	Session      *session.State
	Player       Transport
	Dispatcher   *dispatch.Dispatcher
	Coordinator  *popout.Coordinator
	Stations     *station.List
	Theme        *theme.Preference
	Opener       <-chan popout.Message
	PrefsChanged <-chan struct{}
	Autoplay     bool
}

// Model is the Bubbletea model for the main player window.
type Model struct {
	sess     *session.State
	player   Transport
	disp     *dispatch.Dispatcher
	coord    *popout.Coordinator
	stations *station.List
	pref     *theme.Preference
	opener   <-chan popout.Message
	prefsCh  <-chan struct{}
	autoplay bool

	keys       keyMap
	help       help.Model
	spinner    spinner.Model
	volume     progress.Model
	picker     picker
	title      string
	connecting bool
	startedAt  time.Time
	width      int
	height     int
	quitting   bool
}

// New creates a Model from opts.
func New(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	return Model{
		sess:     opts.Session,
		player:   opts.Player,
		disp:     opts.Dispatcher,
		coord:    opts.Coordinator,
		stations: opts.Stations,
		pref:     opts.Theme,
		opener:   opts.Opener,
		prefsCh:  opts.PrefsChanged,
		autoplay: opts.Autoplay,
		keys:     newKeyMap(),
		help:     help.New(),
		spinner:  s,
		volume:   newVolumeBar(),
		picker:   newPicker(opts.Stations.All()),
	}
}

func (m Model) Init() tea.Cmd {
	m.applyTheme()
	cmds := []tea.Cmd{
		m.disp.Start(),
		waitPlayerEvent(m.player.Events()),
		waitOpener(m.opener),
		waitPrefs(m.prefsCh),
		reconcileCmd(),
		themePollCmd(m.pref.Detect),
		m.spinner.Tick,
		tea.SetWindowTitle(windowTitle(m.stations.Current().Name, false)),
	}
	if m.autoplay {
		cmds = append(cmds, func() tea.Msg { return autoplayMsg{} })
	}
	return tea.Batch(cmds...)
}

type autoplayMsg struct{}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frame.Msg:
		return m, m.disp.HandleFrame(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case autoplayMsg:
		if !m.sess.Playing() && !m.sess.ControlsHidden() {
			return m, m.play()
		}
		return m, nil

	case playerEventMsg:
		m.handlePlayerEvent(player.Event(msg))
		return m, waitPlayerEvent(m.player.Events())

	case openerMsg:
		next := waitOpener(m.opener)
		if m.coord.HandleMessage(popout.Message(msg)) {
			m.connecting = m.sess.Playing()
			return m, tea.Batch(next, tea.SetWindowTitle(windowTitle(m.stations.Current().Name, !m.sess.Playing())))
		}
		return m, next

	case openerGoneMsg:
		m.opener = nil
		return m, nil

	case reconcileMsg:
		m.coord.Reconcile()
		return m, reconcileCmd()

	case themePollMsg:
		if m.pref.Follow(msg.dark) {
			m.applyTheme()
		}
		return m, themePollCmd(m.pref.Detect)

	case prefsChangedMsg:
		changed, err := m.pref.Reload()
		if err != nil {
			log.Warn().Err(err).Msg("reloading preferences")
		} else if changed {
			m.applyTheme()
		}
		return m, waitPrefs(m.prefsCh)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.picker.resize(msg.Width, msg.Height)
		return m, nil
	}

	if m.picker.open {
		return m, m.picker.update(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.picker.open {
		cmd := m.picker.update(msg)
		if !m.picker.open && m.picker.chosen >= 0 && m.picker.chosen != m.stations.CurrentIndex() {
			m.stations.Select(m.picker.chosen)
			return m, tea.Batch(cmd, m.changeStation(m.stations.Current()))
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.disp.Stop()
		m.player.Close()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case key.Matches(msg, m.keys.Theme):
		if err := m.pref.Toggle(); err != nil {
			log.Warn().Err(err).Msg("saving theme preference")
		}
		m.applyTheme()
		return m, nil

	case key.Matches(msg, m.keys.Popout):
		return m, m.openPopout()
	}

	if m.sess.ControlsHidden() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Play):
		if m.sess.Playing() {
			m.pause()
			return m, tea.SetWindowTitle(windowTitle(m.stations.Current().Name, true))
		}
		return m, m.play()

	case key.Matches(msg, m.keys.Next):
		return m, m.changeStation(m.stations.Next())

	case key.Matches(msg, m.keys.Prev):
		return m, m.changeStation(m.stations.Previous())

	case key.Matches(msg, m.keys.Stations):
		m.picker.show(m.stations.CurrentIndex(), m.width, m.height)
		return m, nil

	case key.Matches(msg, m.keys.VolUp):
		m.setVolume(m.sess.Volume() + volumeStep)

	case key.Matches(msg, m.keys.VolDown):
		m.setVolume(m.sess.Volume() - volumeStep)

	case key.Matches(msg, m.keys.Style):
		s := m.disp.CycleStyle()
		log.Debug().Str("style", s.Name()).Msg("style cycled")

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// play starts the current station. A synchronous failure takes the
// playback-error path; asynchronous ones arrive as player events.
func (m *Model) play() tea.Cmd {
	if err := m.player.Play(); err != nil {
		m.playFailed(err)
		return nil
	}
	m.sess.SetPlaying(true)
	m.sess.SetStatus("")
	m.connecting = true
	m.startedAt = time.Time{}
	return tea.SetWindowTitle(windowTitle(m.stations.Current().Name, false))
}

func (m *Model) pause() {
	m.player.Pause()
	m.sess.SetPlaying(false)
	m.connecting = false
}

func (m *Model) playFailed(err error) {
	log.Error().Err(err).Str("station", m.sess.Station()).Msg("playback failed")
	m.sess.SetPlaying(false)
	m.sess.SetStatus(session.StatusPlaybackError)
	m.connecting = false
}

// changeStation re-points the stream and restarts playback if it was active.
func (m *Model) changeStation(s station.Station) tea.Cmd {
	m.sess.SetStation(s.URL)
	m.player.SetStation(s.URL)
	m.title = ""
	log.Info().Str("station", s.Name).Msg("station changed")
	if m.sess.Playing() {
		return m.play()
	}
	return tea.SetWindowTitle(windowTitle(s.Name, true))
}

func (m *Model) setVolume(v float64) {
	m.sess.SetVolume(v)
	m.player.SetVolume(m.sess.Volume())
}

func (m *Model) handlePlayerEvent(ev player.Event) {
	if ev.Generation != m.player.Generation() {
		return
	}
	switch ev.Kind {
	case player.EventStarted:
		m.connecting = false
		m.startedAt = time.Now()
	case player.EventTitle:
		m.title = ev.Title
	case player.EventError:
		if !m.sess.Playing() {
			return
		}
		if errors.Is(ev.Err, player.ErrStreamEnded) {
			log.Warn().Msg("stream ended by server")
		}
		m.playFailed(ev.Err)
	}
}

func (m *Model) openPopout() tea.Cmd {
	wasActive := m.sess.PopoutActive()
	if err := m.coord.OpenOrFocus(m.sess.Station(), m.pref.Dark()); err != nil {
		log.Error().Err(err).Msg("opening pop-out")
		return nil
	}
	m.connecting = false
	m.picker.open = false
	if wasActive {
		return nil
	}
	return tea.SetWindowTitle(windowTitle(m.stations.Current().Name, true))
}

func (m *Model) applyTheme() {
	lipgloss.SetHasDarkBackground(m.pref.Dark())
	m.sess.SetDark(m.pref.Dark())
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	w := m.width
	if w < 40 {
		w = 60
	}
	h := m.height
	if h < 20 {
		h = 24
	}

	head := headerStyle.Render("vuradio")
	mode := labelStyle.Render(m.pref.Name())
	header := head + spaces(w-lipgloss.Width(head)-lipgloss.Width(mode)-4) + mode

	lines := "\n"
	lines += "  " + header + "\n\n"
	lines += "  " + titleStyle.Render(truncate(m.stations.Current().Name, w-4)) + "\n"
	lines += "  " + m.statusLine(w-4) + "\n\n"

	switch {
	case m.sess.ControlsHidden():
		lines += noticeStyle.MarginLeft(2).Render(popout.StatusPoppedOut) + "\n\n"
		lines += "  " + m.help.View(hiddenKeys()) + "\n"
		return lines

	case m.picker.open:
		lines += lipgloss.NewStyle().MarginLeft(2).Render(m.picker.view()) + "\n\n"
		lines += "  " + helpStyle.Render("enter select  / filter  esc close") + "\n"
		return lines
	}

	lines += lipgloss.NewStyle().MarginLeft(2).Render(renderMeters(m.disp, w-4, h-14)) + "\n\n"

	play := statusStyle.Render(playLabel(m.sess.Playing()))
	left := play + "   " + styleLabel(m.disp.Style())
	right := renderVolume(m.volume, m.sess.Volume())
	gap := w - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 2 {
		gap = 2
	}
	lines += "  " + left + spaces(gap) + right + "\n\n"
	lines += "  " + m.help.View(m.keys) + "\n"
	return lines
}

func (m Model) statusLine(width int) string {
	switch {
	case m.sess.Status() != "" && m.sess.Status() != popout.StatusPoppedOut:
		return errorStyle.Render(truncate(m.sess.Status(), width))
	case m.connecting && m.sess.Playing():
		return m.spinner.View() + statusStyle.Render(" connecting…")
	case m.sess.Playing():
		elapsed := ""
		if !m.startedAt.IsZero() {
			elapsed = " · " + util.FormatElapsed(time.Since(m.startedAt))
		}
		text := "Live"
		if m.title != "" {
			text = m.title
		}
		return nowPlayingStyle.Render(truncate(text, width-lipgloss.Width(elapsed))) + labelStyle.Render(elapsed)
	}
	return labelStyle.Render("Stopped")
}

func windowTitle(name string, paused bool) string {
	if paused {
		return fmt.Sprintf("⏸ %s · vuradio", name)
	}
	return fmt.Sprintf("▶ %s · vuradio", name)
}
