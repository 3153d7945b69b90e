package visualizer

import (
	"github.com/olivier-w/vuradio/internal/analysis"
)

const (
	tagSpectrumBar = "spectrum-bar"

	// SpectrumBars is the number of frequency bands drawn per channel.
	SpectrumBars = 16

	// spectrumColorGain skews bar colors toward yellow and red.
	spectrumColorGain = 1.5
)

// spectrumStyle draws equal-width frequency bands as vertical bars.
type spectrumStyle struct{}

func (spectrumStyle) Name() string { return "spectrum" }
func (spectrumStyle) Input() Input { return InputFrequency }

func (spectrumStyle) Build(c *Container, _ analysis.Channel) {
	for i := range SpectrumBars {
		c.Append(&Element{Tag: tagSpectrumBar, Index: i, Color: Green, Opacity: 1})
	}
}

func (spectrumStyle) Render(c *Container, m Metrics) {
	bars := c.FindAll(tagSpectrumBar)
	for i, bar := range bars {
		h := analysis.BandAverage(m.Frequency, i, len(bars))
		bar.Height = h
		bar.Color = LevelColor(h * spectrumColorGain)
	}
}

// Reset leaves the last frame in place; the bars have no at-rest value.
func (spectrumStyle) Reset(*Container) {}

func (spectrumStyle) Draw(c *Container, width, height int) string {
	if width < 1 || height < 1 {
		return ""
	}
	cv := newCanvas(width, height)
	bars := c.FindAll(tagSpectrumBar)
	if len(bars) == 0 {
		return cv.String()
	}

	colWidth := width / len(bars)
	gap := 1
	if colWidth <= 1 {
		colWidth = 1
		gap = 0
	}
	for i, bar := range bars {
		x0 := i * colWidth
		if x0 >= width {
			break
		}
		cv.fillColumn(x0, x0+colWidth-gap, bar.Height, bar.Color)
	}
	return cv.String()
}
