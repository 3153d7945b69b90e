package visualizer

import "github.com/olivier-w/vuradio/internal/analysis"

// Element is one retained visual primitive inside a channel container. Styles
// only touch the fields they own; everything else keeps its zero value.
type Element struct {
	Tag   string
	Index int
	Style string // class of the style whose Build created the element

	Height     float64 // percent of the container
	Color      string
	Opacity    float64
	DashArray  float64
	DashOffset float64
	Rotation   float64 // degrees, 0 points straight up
	Text       string
	Surface    *Surface
}

// Surface is a logical drawing area used by styles that plot raw samples.
type Surface struct {
	Width  int
	Height int

	// Points holds the x coordinate of the trace for each sample, top to bottom.
	Points []float64

	// trace holds the spring-smoothed positions drawn in the terminal.
	trace traceSprings
}

// Container is the per-channel scaffold a style builds into and renders on.
type Container struct {
	Channel analysis.Channel
	Class   string

	elements []*Element
}

// NewContainer returns an empty container for ch.
func NewContainer(ch analysis.Channel) *Container {
	return &Container{Channel: ch}
}

// Clear removes every element and the style class.
func (c *Container) Clear() {
	c.elements = nil
	c.Class = ""
}

// Append adds e, stamping it with the container's current class.
func (c *Container) Append(e *Element) *Element {
	e.Style = c.Class
	c.elements = append(c.elements, e)
	return e
}

// Find returns the first element tagged tag, or nil.
func (c *Container) Find(tag string) *Element {
	for _, e := range c.elements {
		if e.Tag == tag {
			return e
		}
	}
	return nil
}

// FindAll returns every element tagged tag in build order.
func (c *Container) FindAll(tag string) []*Element {
	var out []*Element
	for _, e := range c.elements {
		if e.Tag == tag {
			out = append(out, e)
		}
	}
	return out
}

// Elements returns the container's elements in build order.
func (c *Container) Elements() []*Element {
	return c.elements
}

// Len returns the number of elements.
func (c *Container) Len() int {
	return len(c.elements)
}
