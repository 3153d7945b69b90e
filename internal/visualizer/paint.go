package visualizer

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// DimOpacity is the opacity of an unlit element.
const DimOpacity = 0.1

var (
	styleCache sync.Map // hex -> lipgloss.Style

	// Unlit segments and tracks. Adaptive so a theme toggle is picked up on
	// the next draw.
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#d0d0d0", Dark: "#303030"})
)

func colorStyle(hex string) lipgloss.Style {
	if s, ok := styleCache.Load(hex); ok {
		return s.(lipgloss.Style)
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	styleCache.Store(hex, s)
	return s
}

type cell struct {
	ch    rune
	color string
	dim   bool
}

func (c cell) style() (lipgloss.Style, bool) {
	switch {
	case c.dim:
		return dimStyle, true
	case c.color != "":
		return colorStyle(c.color), true
	}
	return lipgloss.Style{}, false
}

// canvas is a fixed grid of colored terminal cells.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i].ch = ' '
	}
	return c
}

func (c *canvas) set(x, y int, ch rune, color string, dim bool) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{ch: ch, color: color, dim: dim}
}

func (c *canvas) text(x, y int, s string, dim bool) {
	for _, r := range s {
		c.set(x, y, r, "", dim)
		x++
	}
}

// String renders the grid row by row, styling runs of equal cells together.
func (c *canvas) String() string {
	var out strings.Builder
	var run strings.Builder
	for y := range c.h {
		if y > 0 {
			out.WriteByte('\n')
		}
		row := c.cells[y*c.w : (y+1)*c.w]
		for i := 0; i < len(row); {
			run.Reset()
			j := i
			for j < len(row) && row[j].color == row[i].color && row[j].dim == row[i].dim {
				run.WriteRune(row[j].ch)
				j++
			}
			if st, ok := row[i].style(); ok {
				out.WriteString(st.Render(run.String()))
			} else {
				out.WriteString(run.String())
			}
			i = j
		}
	}
	return out.String()
}

var barChars = []rune(" ▁▂▃▄▅▆▇█")

// fillColumn draws a bottom-anchored bar covering pct percent of the canvas
// height in columns [x0, x1), using eighth blocks for the partial top cell.
func (c *canvas) fillColumn(x0, x1 int, pct float64, color string) {
	level := clamp01(pct/100) * float64(c.h)
	for row := range c.h {
		fromBottom := float64(c.h - 1 - row)
		idx := 0
		if level >= fromBottom+1 {
			idx = len(barChars) - 1
		} else if level > fromBottom {
			idx = int((level - fromBottom) * float64(len(barChars)-1))
		}
		if idx == 0 {
			continue
		}
		for x := x0; x < x1; x++ {
			c.set(x, row, barChars[idx], color, false)
		}
	}
}

// drawLine plots a Bresenham line from (x0,y0) to (x1,y1).
func (c *canvas) drawLine(x0, y0, x1, y1 int, ch rune, color string) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy

	for {
		c.set(x0, y0, ch, color, false)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
