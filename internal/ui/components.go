package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/vuradio/internal/analysis"
	"github.com/olivier-w/vuradio/internal/dispatch"
	"github.com/olivier-w/vuradio/internal/visualizer"
)

func newVolumeBar() progress.Model {
	return progress.New(
		progress.WithScaledGradient("#00C853", "#FF5F1F"),
		progress.WithoutPercentage(),
		progress.WithWidth(16),
	)
}

func renderVolumePercent(vol float64) string {
	return fmt.Sprintf("vol %d%%", int(vol*100+0.5))
}

func renderVolume(bar progress.Model, vol float64) string {
	return bar.ViewAs(vol) + " " + statusStyle.Render(renderVolumePercent(vol))
}

func playLabel(playing bool) string {
	if playing {
		return "❚❚ Pause"
	}
	return "▶ Play"
}

// meterSize splits the available width between the two channel meters.
func meterSize(width, height int) (w, h int) {
	w = (width - 8) / 2
	if w < 8 {
		w = 8
	}
	if w > 40 {
		w = 40
	}
	h = height
	if h < 4 {
		h = 4
	}
	return w, h
}

// renderMeters draws both channel containers side by side with their labels.
func renderMeters(d *dispatch.Dispatcher, width, height int) string {
	w, h := meterSize(width, height)
	cols := make([]string, 0, len(analysis.Channels))
	for _, ch := range analysis.Channels {
		box := meterStyle.Render(d.Draw(ch, w, h))
		label := lipgloss.PlaceHorizontal(lipgloss.Width(box), lipgloss.Center, labelStyle.Render(ch.Label()))
		cols = append(cols, lipgloss.JoinVertical(lipgloss.Left, box, label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols[0], "  ", cols[1])
}

func styleLabel(s visualizer.Style) string {
	return labelStyle.Render("style ") + statusStyle.Render(visualizer.Title(s.Name()))
}

func spaces(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat(" ", n)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
