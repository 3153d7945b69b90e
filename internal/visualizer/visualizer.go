package visualizer

import (
	"strings"

	"github.com/olivier-w/vuradio/internal/analysis"
)

// Input is the metric shape a style consumes each frame.
type Input uint8

const (
	InputLevel Input = iota
	InputTimeDomain
	InputFrequency
)

// Metrics carries one channel's data for a single frame. Only the field
// matching the style's Input is set.
type Metrics struct {
	Level      float64
	TimeDomain []byte
	Frequency  []byte
}

// Style is one interchangeable meter presentation.
type Style interface {
	Name() string
	Input() Input
	// Build creates the style's elements in an empty container.
	Build(c *Container, ch analysis.Channel)
	// Render updates the built elements from the current metrics. Missing
	// elements are skipped.
	Render(c *Container, m Metrics)
	// Reset puts the elements back to their at-rest values.
	Reset(c *Container)
	// Draw renders the container as width x height terminal cells.
	Draw(c *Container, width, height int) string
}

// Level colors.
const (
	Green  = "#00ff00"
	Yellow = "#ffff00"
	Red    = "#ff0000"
)

// LevelColor maps a 0–100 level onto the three-tier meter palette.
func LevelColor(level float64) string {
	switch {
	case level < 60:
		return Green
	case level < 85:
		return Yellow
	default:
		return Red
	}
}

var registry = []Style{
	classicStyle{},
	ledStyle{},
	circularStyle{},
	waveformStyle{},
	spectrumStyle{},
	retroStyle{},
}

// StyleCount is the number of registered styles.
var StyleCount = len(registry)

// DefaultStyle is the index of the style selected on a fresh start (led).
const DefaultStyle = 1

// Styles returns the registered styles in cycle order.
func Styles() []Style {
	out := make([]Style, len(registry))
	copy(out, registry)
	return out
}

// At returns the style at index i, wrapping out-of-range indexes.
func At(i int) Style {
	n := len(registry)
	return registry[((i%n)+n)%n]
}

// IndexOf returns the index of the style named name, or -1.
func IndexOf(name string) int {
	for i, s := range registry {
		if strings.EqualFold(s.Name(), name) {
			return i
		}
	}
	return -1
}

// Rebuild clears c and builds style s into it.
func Rebuild(c *Container, s Style) {
	c.Clear()
	c.Class = "vu-" + s.Name()
	s.Build(c, c.Channel)
}

// Title returns the display form of a style name ("led" -> "Led").
func Title(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
