// Package popout hands playback to a compact player running in a second
// terminal window and takes it back when that window closes.
package popout

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/olivier-w/vuradio/internal/session"
)

// StatusPoppedOut replaces the main controls while a pop-out is open.
const StatusPoppedOut = "Playing in pop-out window"

// Transport is the local playback the coordinator suspends and resumes.
type Transport interface {
	Pause()
	Play() error
}

// Launcher opens a pop-out window initialized with station and theme.
type Launcher interface {
	Launch(station string, dark bool) (session.Window, error)
}

// Coordinator keeps exactly one of the main window and the pop-out playing.
// It is driven from Update and shares the session without locking.
type Coordinator struct {
	state     *session.State
	transport Transport
	launcher  Launcher
}

// NewCoordinator creates a coordinator over state.
func NewCoordinator(state *session.State, transport Transport, launcher Launcher) *Coordinator {
	return &Coordinator{state: state, transport: transport, launcher: launcher}
}

// OpenOrFocus focuses a live pop-out, or pauses local playback and launches a
// new one. A stale handle is treated as no pop-out.
func (c *Coordinator) OpenOrFocus(station string, dark bool) error {
	if c.state.PopoutActive() {
		if err := c.state.Popout().Focus(); err != nil {
			log.Debug().Err(err).Msg("focus pop-out")
		}
		return nil
	}

	wasPlaying := c.state.Playing()
	if c.state.Popout() != nil || c.state.ControlsHidden() {
		// The dead pop-out's pending resume carries over to its replacement.
		log.Warn().Msg("replacing pop-out that closed without notification")
		wasPlaying = wasPlaying || c.state.ResumeOnReturn()
		c.state.ClearPopout()
		c.state.SetControlsHidden(false)
		c.state.SetStatus("")
	}
	c.state.SetResumeOnReturn(wasPlaying)
	if c.state.Playing() {
		c.transport.Pause()
	}
	c.state.SetPlaying(false)

	w, err := c.launcher.Launch(station, dark)
	if err != nil {
		c.state.SetResumeOnReturn(false)
		c.state.SetStatus("Error: Unable to open pop-out")
		return fmt.Errorf("launch pop-out: %w", err)
	}
	c.state.SetPopout(w)
	c.state.SetControlsHidden(true)
	c.state.SetStatus(StatusPoppedOut)
	log.Info().Str("station", station).Bool("resume", wasPlaying).Msg("playback handed to pop-out")
	return nil
}

// HandleMessage reacts to a message from the pop-out. Only PopoutClosed is
// recognized; it reports whether m was handled.
func (c *Coordinator) HandleMessage(m Message) bool {
	if m.Type != PopoutClosed {
		return false
	}
	if c.state.Popout() == nil && !c.state.ControlsHidden() {
		return false
	}
	c.restore()
	return true
}

// Reconcile restores the main window when the stored pop-out has gone away
// without sending its closed notification. It reports whether it did.
func (c *Coordinator) Reconcile() bool {
	w := c.state.Popout()
	if w == nil || !w.Closed() {
		return false
	}
	log.Warn().Msg("pop-out closed without notification")
	c.restore()
	return true
}

func (c *Coordinator) restore() {
	c.state.ClearPopout()
	c.state.SetControlsHidden(false)
	c.state.SetStatus("")

	resume := c.state.ResumeOnReturn()
	c.state.SetResumeOnReturn(false)
	if !resume {
		return
	}
	if err := c.transport.Play(); err != nil {
		log.Error().Err(err).Msg("resume after pop-out")
		c.state.SetPlaying(false)
		c.state.SetStatus(session.StatusPlaybackError)
		return
	}
	c.state.SetPlaying(true)
}
