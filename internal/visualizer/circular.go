package visualizer

import (
	"math"

	"github.com/olivier-w/vuradio/internal/analysis"
)

const (
	tagCircularTrack = "circular-track"
	tagCircularLevel = "circular-level"

	// Circumference of the level arc (2πr with r=13).
	Circumference = 81.68
)

// circularStyle fills a ring clockwise from the top as the level rises.
// The arc is expressed as a dash offset: Circumference is empty, 0 is full.
type circularStyle struct{}

func (circularStyle) Name() string { return "circular" }
func (circularStyle) Input() Input { return InputLevel }

func (circularStyle) Build(c *Container, _ analysis.Channel) {
	c.Append(&Element{Tag: tagCircularTrack, Opacity: 0.3})
	c.Append(&Element{
		Tag:        tagCircularLevel,
		Color:      Green,
		Opacity:    1,
		DashArray:  Circumference,
		DashOffset: Circumference,
	})
}

func (circularStyle) Render(c *Container, m Metrics) {
	e := c.Find(tagCircularLevel)
	if e == nil {
		return
	}
	e.DashOffset = Circumference - (m.Level/100)*Circumference
	e.Color = LevelColor(m.Level)
}

func (circularStyle) Reset(c *Container) {
	for _, e := range c.FindAll(tagCircularLevel) {
		e.DashOffset = Circumference
		e.Color = Green
	}
}

func (circularStyle) Draw(c *Container, width, height int) string {
	if width < 1 || height < 1 {
		return ""
	}
	cv := newCanvas(width, height)
	arc := c.Find(tagCircularLevel)
	track := c.Find(tagCircularTrack)
	if arc == nil && track == nil {
		return cv.String()
	}

	filled := 0.0
	color := Green
	if arc != nil && arc.DashArray > 0 {
		filled = clamp01((arc.DashArray - arc.DashOffset) / arc.DashArray)
		color = arc.Color
	}

	// Terminal cells are about twice as tall as wide, so the ring is fit
	// to whichever dimension is tighter.
	radius := math.Min(float64(width)/2, float64(height))
	if radius < 1 {
		radius = 1
	}
	cx := float64(width) / 2
	cy := float64(height) / 2
	const thickness = 0.28

	for y := range height {
		for x := range width {
			dx := (float64(x) + 0.5 - cx) / radius
			dy := (float64(y) + 0.5 - cy) * 2 / radius
			if math.Abs(math.Hypot(dx, dy)-0.8) > thickness {
				continue
			}
			// 0 at twelve o'clock, increasing clockwise.
			angle := math.Atan2(dx, -dy)
			if angle < 0 {
				angle += 2 * math.Pi
			}
			if angle/(2*math.Pi) < filled {
				cv.set(x, y, '█', color, false)
			} else if track != nil {
				cv.set(x, y, '·', "", true)
			}
		}
	}
	return cv.String()
}
