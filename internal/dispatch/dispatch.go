// Package dispatch drives the visualization: once per frame it samples both
// channels, computes metrics and hands them to the active style.
package dispatch

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/olivier-w/vuradio/internal/analysis"
	"github.com/olivier-w/vuradio/internal/frame"
	"github.com/olivier-w/vuradio/internal/session"
	"github.com/olivier-w/vuradio/internal/visualizer"
)

// Sampler refreshes one channel's byte buffers from the live analysis nodes.
type Sampler interface {
	Fill(ch analysis.Channel, b *analysis.Buffers)
}

// Dispatcher owns the frame loop, both channel containers and the sample
// frame. Like the session it is used only from Update.
type Dispatcher struct {
	sess    *session.State
	sampler Sampler
	loop    *frame.Loop

	containers [2]*visualizer.Container
	frame      analysis.Frame
	levels     [2]float64
	built      int
}

// New creates a dispatcher for sess reading audio from sampler. A nil sampler
// renders silence.
func New(sess *session.State, sampler Sampler, interval time.Duration) *Dispatcher {
	d := &Dispatcher{
		sess:    sess,
		sampler: sampler,
		loop:    frame.NewLoop(interval),
		frame:   analysis.NewFrame(analysis.BinCount),
		built:   -1,
	}
	for _, ch := range analysis.Channels {
		d.containers[ch] = visualizer.NewContainer(ch)
	}
	d.Rebuild()
	return d
}

// Start schedules the first frame.
func (d *Dispatcher) Start() tea.Cmd {
	cmd := d.loop.Start()
	d.sess.SetFrame(d.loop.Pending())
	return cmd
}

// HandleFrame processes a frame message. The next frame is scheduled before
// this one is rendered; stale or cancelled frames return nil.
func (d *Dispatcher) HandleFrame(msg frame.Msg) tea.Cmd {
	ok, next := d.loop.Accept(msg)
	d.sess.SetFrame(d.loop.Pending())
	if !ok {
		return nil
	}
	d.Tick()
	return next
}

// Tick renders one frame from the current session state.
func (d *Dispatcher) Tick() {
	if d.built != d.sess.StyleIndex() {
		d.Rebuild()
	}
	style := visualizer.At(d.built)

	if !d.sess.Playing() {
		d.levels = [2]float64{}
		for _, c := range d.containers {
			style.Reset(c)
		}
		return
	}

	for _, ch := range analysis.Channels {
		b := &d.frame[ch]
		if d.sampler != nil {
			d.sampler.Fill(ch, b)
		}
		d.levels[ch] = analysis.LevelFromTimeDomain(b.TimeDomain)

		var m visualizer.Metrics
		switch style.Input() {
		case visualizer.InputTimeDomain:
			m.TimeDomain = b.TimeDomain
		case visualizer.InputFrequency:
			m.Frequency = b.Frequency
		default:
			m.Level = d.levels[ch]
		}
		style.Render(d.containers[ch], m)
	}
}

// CycleStyle advances the session to the next style and rebuilds both
// containers before the next frame renders.
func (d *Dispatcher) CycleStyle() visualizer.Style {
	d.sess.CycleStyle()
	d.Rebuild()
	return d.Style()
}

// Rebuild clears both containers and builds the session's current style.
func (d *Dispatcher) Rebuild() {
	d.built = d.sess.StyleIndex()
	style := visualizer.At(d.built)
	for _, c := range d.containers {
		visualizer.Rebuild(c, style)
	}
	log.Debug().Str("style", style.Name()).Msg("visualizer rebuilt")
}

// Stop cancels the pending frame. Later calls are no-ops.
func (d *Dispatcher) Stop() {
	if d.loop.Stop() {
		d.sess.SetFrame(0)
	}
}

// Style returns the built style.
func (d *Dispatcher) Style() visualizer.Style {
	return visualizer.At(d.built)
}

// Container returns the container for ch.
func (d *Dispatcher) Container(ch analysis.Channel) *visualizer.Container {
	return d.containers[ch]
}

// Levels returns the last computed levels, zero while idle.
func (d *Dispatcher) Levels() [2]float64 {
	return d.levels
}

// Draw renders channel ch's container into width x height cells.
func (d *Dispatcher) Draw(ch analysis.Channel, width, height int) string {
	return d.Style().Draw(d.containers[ch], width, height)
}
