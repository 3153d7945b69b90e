// Package session holds the single shared player record. It is owned by the
// Bubble Tea model and mutated only from Update, so it carries no locks.
package session

import "github.com/olivier-w/vuradio/internal/frame"

// StatusPlaybackError is shown when a stream cannot be started.
const StatusPlaybackError = "Error: Unable to play stream"

// Window is a non-owning handle on a pop-out window.
type Window interface {
	Focus() error
	Closed() bool
}

// Options seeds a new State.
type Options struct {
	Station    string
	Volume     float64
	StyleIndex int
	StyleCount int
	Dark       bool
}

// State is the session record shared by the playback controls, the render
// dispatcher and the pop-out coordinator.
type State struct {
	playing    bool
	station    string
	volume     float64
	styleIndex int
	styleCount int
	popout     Window
	frame      frame.Token

	resumeOnReturn bool
	status         string
	controlsHidden bool
	dark           bool
}

// New creates a State from opts. Volume is clamped and the style index is
// wrapped into range.
func New(opts Options) *State {
	count := opts.StyleCount
	if count < 1 {
		count = 1
	}
	s := &State{
		station:    opts.Station,
		styleCount: count,
		dark:       opts.Dark,
	}
	s.SetVolume(opts.Volume)
	s.SetStyleIndex(opts.StyleIndex)
	return s
}

func (s *State) Playing() bool           { return s.playing }
func (s *State) SetPlaying(playing bool) { s.playing = playing }

func (s *State) Station() string           { return s.station }
func (s *State) SetStation(station string) { s.station = station }

func (s *State) Volume() float64 { return s.volume }

// SetVolume stores v clamped to [0, 1].
func (s *State) SetVolume(v float64) {
	switch {
	case v < 0:
		v = 0
	case v > 1:
		v = 1
	}
	s.volume = v
}

func (s *State) StyleIndex() int { return s.styleIndex }
func (s *State) StyleCount() int { return s.styleCount }

// SetStyleIndex stores i wrapped into [0, StyleCount).
func (s *State) SetStyleIndex(i int) {
	n := s.styleCount
	s.styleIndex = ((i % n) + n) % n
}

// CycleStyle advances to the next style, wrapping, and returns the new index.
func (s *State) CycleStyle() int {
	s.SetStyleIndex(s.styleIndex + 1)
	return s.styleIndex
}

// Popout returns the stored pop-out handle, which may be stale.
func (s *State) Popout() Window { return s.popout }

func (s *State) SetPopout(w Window) { s.popout = w }
func (s *State) ClearPopout()       { s.popout = nil }

// PopoutActive reports whether a pop-out handle is stored and still open.
func (s *State) PopoutActive() bool {
	return s.popout != nil && !s.popout.Closed()
}

func (s *State) Frame() frame.Token         { return s.frame }
func (s *State) SetFrame(token frame.Token) { s.frame = token }

// ResumeOnReturn is the playing flag captured when playback was handed to a
// pop-out.
func (s *State) ResumeOnReturn() bool     { return s.resumeOnReturn }
func (s *State) SetResumeOnReturn(v bool) { s.resumeOnReturn = v }

func (s *State) Status() string          { return s.status }
func (s *State) SetStatus(status string) { s.status = status }

func (s *State) ControlsHidden() bool     { return s.controlsHidden }
func (s *State) SetControlsHidden(v bool) { s.controlsHidden = v }

func (s *State) Dark() bool     { return s.dark }
func (s *State) SetDark(v bool) { s.dark = v }

// Theme returns "dark" or "light".
func (s *State) Theme() string {
	if s.dark {
		return "dark"
	}
	return "light"
}
