package visualizer

import (
	"math"

	"github.com/olivier-w/vuradio/internal/analysis"
)

const (
	tagLED = "led-segment"

	// LEDSegments is the number of discrete segments per channel.
	LEDSegments = 20
)

// ledStyle lights a stack of segments proportional to the level. Segment
// color depends on the segment's position, not on the level.
type ledStyle struct{}

func (ledStyle) Name() string { return "led" }
func (ledStyle) Input() Input { return InputLevel }

func (ledStyle) Build(c *Container, _ analysis.Channel) {
	for i := range LEDSegments {
		c.Append(&Element{Tag: tagLED, Index: i, Color: segmentColor(i, LEDSegments), Opacity: DimOpacity})
	}
}

func segmentColor(i, n int) string {
	ratio := float64(i) / float64(n)
	switch {
	case ratio < 0.6:
		return Green
	case ratio < 0.85:
		return Yellow
	default:
		return Red
	}
}

func (ledStyle) Render(c *Container, m Metrics) {
	leds := c.FindAll(tagLED)
	active := int(math.Floor(m.Level / 100 * float64(len(leds))))
	for i, led := range leds {
		if i < active {
			led.Color = segmentColor(i, len(leds))
			led.Opacity = 1
		} else {
			led.Opacity = DimOpacity
		}
	}
}

func (ledStyle) Reset(c *Container) {
	for _, led := range c.FindAll(tagLED) {
		led.Opacity = DimOpacity
	}
}

// Draw stacks the segments bottom-up, sampling one segment per row when the
// area is shorter than the segment count.
func (ledStyle) Draw(c *Container, width, height int) string {
	if width < 1 || height < 1 {
		return ""
	}
	cv := newCanvas(width, height)
	leds := c.FindAll(tagLED)
	if len(leds) == 0 {
		return cv.String()
	}

	rows := min(height, len(leds))
	for r := range rows {
		led := leds[r*len(leds)/rows]
		y := height - 1 - r
		lit := led.Opacity >= 1
		for x := range width {
			ch := '■'
			if x == width-1 && width > 2 {
				ch = ' '
			}
			cv.set(x, y, ch, led.Color, !lit)
		}
	}
	return cv.String()
}
