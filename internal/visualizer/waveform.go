package visualizer

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/olivier-w/vuradio/internal/analysis"
)

const (
	tagWaveform = "waveform-canvas"

	// Logical drawing surface of the waveform trace.
	WaveformWidth  = 60
	WaveformHeight = 100

	// traceRows is the resolution of the smoothed trace kept for drawing.
	traceRows = 32
)

// traceSprings eases each row of the drawn trace toward the mean sample
// position of that row, so the terminal plot follows the audio at frame rate
// without flickering between frames.
type traceSprings struct {
	spring harmonica.Spring
	x      []float64
	dx     []float64
}

func newTraceSprings(rows int, center float64) traceSprings {
	t := traceSprings{
		spring: harmonica.NewSpring(harmonica.FPS(30), 14.0, 0.8),
		x:      make([]float64, rows),
		dx:     make([]float64, rows),
	}
	for i := range t.x {
		t.x[i] = center
	}
	return t
}

func (t *traceSprings) pull(row int, target float64) {
	t.x[row], t.dx[row] = t.spring.Update(t.x[row], t.dx[row], target)
}

// waveformStyle plots the raw time-domain samples as a vertical trace: time
// runs top to bottom and amplitude swings left and right of the center.
type waveformStyle struct{}

func (waveformStyle) Name() string { return "waveform" }
func (waveformStyle) Input() Input { return InputTimeDomain }

func (waveformStyle) Build(c *Container, _ analysis.Channel) {
	s := &Surface{Width: WaveformWidth, Height: WaveformHeight}
	s.trace = newTraceSprings(traceRows, WaveformWidth/2)
	c.Append(&Element{Tag: tagWaveform, Color: Green, Opacity: 1, Surface: s})
}

func (waveformStyle) Render(c *Container, m Metrics) {
	e := c.Find(tagWaveform)
	if e == nil || e.Surface == nil {
		return
	}
	s := e.Surface
	w := float64(s.Width)

	s.Points = s.Points[:0]
	for _, b := range m.TimeDomain {
		v := (float64(b) - 128) / 128
		s.Points = append(s.Points, v*w/2+w/2)
	}

	n := len(s.Points)
	if n == 0 {
		return
	}
	if len(s.trace.x) != traceRows {
		s.trace = newTraceSprings(traceRows, w/2)
	}
	for r := range traceRows {
		lo := r * n / traceRows
		hi := (r + 1) * n / traceRows
		if hi <= lo {
			continue
		}
		var sum float64
		for _, x := range s.Points[lo:hi] {
			sum += x
		}
		s.trace.pull(r, sum/float64(hi-lo))
	}
}

// Reset leaves the last trace in place; the surface has no at-rest value.
func (waveformStyle) Reset(*Container) {}

func (waveformStyle) Draw(c *Container, width, height int) string {
	if width < 1 || height < 1 {
		return ""
	}
	cv := newCanvas(width, height)
	e := c.Find(tagWaveform)
	if e == nil || e.Surface == nil {
		return cv.String()
	}
	s := e.Surface

	mid := width / 2
	for y := range height {
		cv.set(mid, y, '·', "", true)
	}
	if len(s.trace.x) == 0 || s.Width <= 0 {
		return cv.String()
	}

	col := func(y int) int {
		r := y * len(s.trace.x) / height
		x := s.trace.x[r] / float64(s.Width) * float64(width-1)
		return int(math.Round(math.Max(0, math.Min(x, float64(width-1)))))
	}
	prev := col(0)
	cv.set(prev, 0, '●', e.Color, false)
	for y := 1; y < height; y++ {
		x := col(y)
		cv.drawLine(prev, y-1, x, y, '●', e.Color)
		prev = x
	}
	return cv.String()
}
