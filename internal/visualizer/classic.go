package visualizer

import "github.com/olivier-w/vuradio/internal/analysis"

const tagLevel = "vu-level"

// classicStyle is a single bar whose height follows the channel level.
type classicStyle struct{}

func (classicStyle) Name() string { return "classic" }
func (classicStyle) Input() Input { return InputLevel }

func (classicStyle) Build(c *Container, _ analysis.Channel) {
	c.Append(&Element{Tag: tagLevel, Color: Green, Opacity: 1})
}

func (classicStyle) Render(c *Container, m Metrics) {
	e := c.Find(tagLevel)
	if e == nil {
		return
	}
	e.Height = m.Level
	e.Color = LevelColor(m.Level)
}

func (classicStyle) Reset(c *Container) {
	for _, e := range c.FindAll(tagLevel) {
		e.Height = 0
		e.Color = Green
	}
}

func (classicStyle) Draw(c *Container, width, height int) string {
	if width < 1 || height < 1 {
		return ""
	}
	cv := newCanvas(width, height)
	if e := c.Find(tagLevel); e != nil {
		cv.fillColumn(0, width, e.Height, e.Color)
	}
	return cv.String()
}
