package visualizer

import (
	"math"

	"github.com/olivier-w/vuradio/internal/analysis"
)

const (
	tagRetroScale  = "retro-scale"
	tagRetroNeedle = "retro-needle"

	// Needle sweep in degrees; 0 points straight up.
	NeedleMin   = -45.0
	NeedleSweep = 90.0

	retroScaleText = "0   20   40   60   80   100"
)

// retroStyle is an analog meter with a needle pivoting at the bottom center.
type retroStyle struct{}

func (retroStyle) Name() string { return "retro" }
func (retroStyle) Input() Input { return InputLevel }

func (retroStyle) Build(c *Container, _ analysis.Channel) {
	c.Append(&Element{Tag: tagRetroScale, Text: retroScaleText, Opacity: 1})
	c.Append(&Element{Tag: tagRetroNeedle, Rotation: NeedleMin, Color: Green, Opacity: 1})
}

func (retroStyle) Render(c *Container, m Metrics) {
	needle := c.Find(tagRetroNeedle)
	if needle == nil {
		return
	}
	needle.Rotation = NeedleMin + (m.Level/100)*NeedleSweep
	needle.Color = LevelColor(m.Level)
}

func (retroStyle) Reset(c *Container) {
	for _, needle := range c.FindAll(tagRetroNeedle) {
		needle.Rotation = NeedleMin
		needle.Color = Green
	}
}

func (retroStyle) Draw(c *Container, width, height int) string {
	if width < 1 || height < 1 {
		return ""
	}
	cv := newCanvas(width, height)

	top := 0
	if scale := c.Find(tagRetroScale); scale != nil {
		text := scale.Text
		if r := []rune(text); len(r) > width {
			text = string(r[:width])
		}
		cv.text((width-len([]rune(text)))/2, 0, text, true)
		top = 1
	}

	needle := c.Find(tagRetroNeedle)
	if needle == nil {
		return cv.String()
	}

	px, py := width/2, height-1
	length := float64(py - top)
	if length < 1 {
		cv.set(px, py, '◆', needle.Color, false)
		return cv.String()
	}
	rad := needle.Rotation * math.Pi / 180
	// Cells are about twice as tall as wide.
	tx := px + int(math.Round(math.Sin(rad)*length*2))
	ty := py - int(math.Round(math.Cos(rad)*length))
	cv.drawLine(px, py, tx, ty, '•', needle.Color)
	cv.set(px, py, '◆', needle.Color, false)
	return cv.String()
}
