package visualizer

import (
	"math"
	"strings"
	"testing"

	"github.com/olivier-w/vuradio/internal/analysis"
)

func TestRegistryOrder(t *testing.T) {
	want := []string{"classic", "led", "circular", "waveform", "spectrum", "retro"}
	styles := Styles()
	if len(styles) != len(want) || StyleCount != len(want) {
		t.Fatalf("expected %d styles, got %d (StyleCount %d)", len(want), len(styles), StyleCount)
	}
	for i, name := range want {
		if styles[i].Name() != name {
			t.Fatalf("style %d: expected %q, got %q", i, name, styles[i].Name())
		}
		if IndexOf(name) != i {
			t.Fatalf("IndexOf(%q) = %d, want %d", name, IndexOf(name), i)
		}
	}
	if At(DefaultStyle).Name() != "led" {
		t.Fatalf("expected default style led, got %q", At(DefaultStyle).Name())
	}
	if IndexOf("plasma") != -1 {
		t.Fatal("expected unknown style to return -1")
	}
}

func TestAtWraps(t *testing.T) {
	for i := -12; i < 12; i++ {
		want := registry[((i%StyleCount)+StyleCount)%StyleCount].Name()
		if got := At(i).Name(); got != want {
			t.Fatalf("At(%d) = %q, want %q", i, got, want)
		}
	}
	start := 2
	idx := start
	for range StyleCount {
		idx = (idx + 1) % StyleCount
	}
	if At(idx).Name() != At(start).Name() {
		t.Fatalf("expected %d cycles to return to %q, got %q", StyleCount, At(start).Name(), At(idx).Name())
	}
}

func TestLevelColorThresholds(t *testing.T) {
	tests := []struct {
		level float64
		want  string
	}{
		{0, Green},
		{59.999, Green},
		{60, Yellow},
		{84.9, Yellow},
		{85, Red},
		{100, Red},
		{150, Red},
	}
	for _, tt := range tests {
		if got := LevelColor(tt.level); got != tt.want {
			t.Fatalf("LevelColor(%v) = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestTitle(t *testing.T) {
	if got := Title("retro"); got != "Retro" {
		t.Fatalf("expected Retro, got %q", got)
	}
	if got := Title(""); got != "" {
		t.Fatalf("expected empty title, got %q", got)
	}
}

func TestRebuildLeavesOnlyCurrentStyle(t *testing.T) {
	c := NewContainer(analysis.Left)
	for i := range 4*StyleCount + 3 {
		s := At(i)
		Rebuild(c, s)
		if c.Len() == 0 {
			t.Fatalf("style %q built no elements", s.Name())
		}
		for _, e := range c.Elements() {
			if e.Style != "vu-"+s.Name() {
				t.Fatalf("after switching to %q found element %q from %q", s.Name(), e.Tag, e.Style)
			}
		}
		if c.Class != "vu-"+s.Name() {
			t.Fatalf("expected class vu-%s, got %q", s.Name(), c.Class)
		}
	}
}

func TestBuildCounts(t *testing.T) {
	tests := []struct {
		style string
		tag   string
		want  int
	}{
		{"classic", tagLevel, 1},
		{"led", tagLED, LEDSegments},
		{"circular", tagCircularLevel, 1},
		{"waveform", tagWaveform, 1},
		{"spectrum", tagSpectrumBar, SpectrumBars},
		{"retro", tagRetroNeedle, 1},
	}
	for _, tt := range tests {
		c := NewContainer(analysis.Right)
		Rebuild(c, At(IndexOf(tt.style)))
		if got := len(c.FindAll(tt.tag)); got != tt.want {
			t.Fatalf("%s: expected %d %s elements, got %d", tt.style, tt.want, tt.tag, got)
		}
	}
}

func TestResetRestoresAtRestValues(t *testing.T) {
	for _, s := range Styles() {
		c := NewContainer(analysis.Left)
		Rebuild(c, s)
		s.Render(c, Metrics{Level: 97})
		s.Reset(c)

		switch s.Name() {
		case "classic":
			e := c.Find(tagLevel)
			if e.Height != 0 || e.Color != Green {
				t.Fatalf("classic reset: height %v color %s", e.Height, e.Color)
			}
		case "led":
			for _, led := range c.FindAll(tagLED) {
				if led.Opacity != DimOpacity {
					t.Fatalf("led %d reset: opacity %v", led.Index, led.Opacity)
				}
			}
		case "circular":
			e := c.Find(tagCircularLevel)
			if e.DashOffset != 81.68 || e.Color != Green {
				t.Fatalf("circular reset: offset %v color %s", e.DashOffset, e.Color)
			}
		case "retro":
			e := c.Find(tagRetroNeedle)
			if e.Rotation != -45 || e.Color != Green {
				t.Fatalf("retro reset: rotation %v color %s", e.Rotation, e.Color)
			}
		}
	}
}

func TestClassicRender(t *testing.T) {
	c := NewContainer(analysis.Left)
	Rebuild(c, classicStyle{})
	classicStyle{}.Render(c, Metrics{Level: 72})
	e := c.Find(tagLevel)
	if e.Height != 72 || e.Color != Yellow {
		t.Fatalf("expected height 72 yellow, got %v %s", e.Height, e.Color)
	}
}

func TestLEDRender(t *testing.T) {
	c := NewContainer(analysis.Left)
	Rebuild(c, ledStyle{})
	ledStyle{}.Render(c, Metrics{Level: 96})

	leds := c.FindAll(tagLED)
	// floor(0.96*20) = 19 lit.
	for i, led := range leds {
		lit := led.Opacity == 1
		if lit != (i < 19) {
			t.Fatalf("segment %d: lit=%v", i, lit)
		}
	}
	if leds[11].Color != Green || leds[12].Color != Yellow || leds[16].Color != Yellow || leds[17].Color != Red {
		t.Fatalf("unexpected segment colors: %s %s %s %s", leds[11].Color, leds[12].Color, leds[16].Color, leds[17].Color)
	}
}

func TestCircularRender(t *testing.T) {
	c := NewContainer(analysis.Left)
	Rebuild(c, circularStyle{})
	circularStyle{}.Render(c, Metrics{Level: 50})
	e := c.Find(tagCircularLevel)
	if e.DashOffset != Circumference/2 {
		t.Fatalf("expected offset %v, got %v", Circumference/2, e.DashOffset)
	}
	circularStyle{}.Render(c, Metrics{Level: 100})
	if e.DashOffset != 0 || e.Color != Red {
		t.Fatalf("expected full red arc, got offset %v color %s", e.DashOffset, e.Color)
	}
}

func TestRetroRender(t *testing.T) {
	c := NewContainer(analysis.Right)
	Rebuild(c, retroStyle{})
	tests := []struct {
		level, want float64
	}{
		{0, -45},
		{50, 0},
		{100, 45},
	}
	for _, tt := range tests {
		retroStyle{}.Render(c, Metrics{Level: tt.level})
		if got := c.Find(tagRetroNeedle).Rotation; got != tt.want {
			t.Fatalf("level %v: expected rotation %v, got %v", tt.level, tt.want, got)
		}
	}
}

func TestSpectrumColorUsesBoostedLevel(t *testing.T) {
	c := NewContainer(analysis.Left)
	Rebuild(c, spectrumStyle{})

	freq := make([]byte, analysis.BinCount)
	// Band 0 averages 102/255 = 40%, colored as 60% -> yellow.
	for i := range 32 {
		freq[i] = 102
	}
	spectrumStyle{}.Render(c, Metrics{Frequency: freq})

	bars := c.FindAll(tagSpectrumBar)
	if bars[0].Height != 40 {
		t.Fatalf("expected bar height 40, got %v", bars[0].Height)
	}
	if bars[0].Color != Yellow {
		t.Fatalf("expected boosted color yellow, got %s", bars[0].Color)
	}
	if bars[1].Height != 0 || bars[1].Color != Green {
		t.Fatalf("expected empty green bar, got %v %s", bars[1].Height, bars[1].Color)
	}
}

func TestWaveformPoints(t *testing.T) {
	c := NewContainer(analysis.Left)
	Rebuild(c, waveformStyle{})

	td := []byte{0, 128, 255, 64}
	waveformStyle{}.Render(c, Metrics{TimeDomain: td})

	s := c.Find(tagWaveform).Surface
	if s.Width != 60 || s.Height != 100 {
		t.Fatalf("expected 60x100 surface, got %dx%d", s.Width, s.Height)
	}
	want := []float64{0, 30, 30 + 127.0/128*30, 15}
	for i, x := range want {
		if s.Points[i] != x {
			t.Fatalf("point %d: expected %v, got %v", i, x, s.Points[i])
		}
	}
}

func TestWaveformTraceEasesTowardSamples(t *testing.T) {
	c := NewContainer(analysis.Left)
	Rebuild(c, waveformStyle{})
	s := c.Find(tagWaveform).Surface
	for _, x := range s.trace.x {
		if x != WaveformWidth/2 {
			t.Fatalf("expected trace to start centered, got %v", x)
		}
	}

	td := make([]byte, 256)
	for i := range td {
		td[i] = 255
	}
	waveformStyle{}.Render(c, Metrics{TimeDomain: td})
	first := s.trace.x[0]
	if first <= WaveformWidth/2 || first >= s.Points[0] {
		t.Fatalf("expected trace between center and sample after one frame, got %v", first)
	}
	for range 60 {
		waveformStyle{}.Render(c, Metrics{TimeDomain: td})
	}
	if math.Abs(s.trace.x[0]-s.Points[0]) > 1 {
		t.Fatalf("expected trace to settle on %v, got %v", s.Points[0], s.trace.x[0])
	}
}

func TestRenderSkipsMissingElements(t *testing.T) {
	c := NewContainer(analysis.Left)
	for _, s := range Styles() {
		s.Render(c, Metrics{Level: 50, TimeDomain: make([]byte, 8), Frequency: make([]byte, 32)})
		s.Reset(c)
		if out := s.Draw(c, 10, 4); strings.Count(out, "\n") != 3 {
			t.Fatalf("%s: expected blank 4-row drawing, got %q", s.Name(), out)
		}
	}
	if c.Len() != 0 {
		t.Fatalf("expected container to stay empty, got %d elements", c.Len())
	}
}

func TestDrawDimensions(t *testing.T) {
	for _, s := range Styles() {
		c := NewContainer(analysis.Left)
		Rebuild(c, s)
		s.Render(c, Metrics{Level: 80, TimeDomain: make([]byte, 512), Frequency: make([]byte, 512)})
		out := s.Draw(c, 12, 6)
		if lines := strings.Split(out, "\n"); len(lines) != 6 {
			t.Fatalf("%s: expected 6 lines, got %d", s.Name(), len(lines))
		}
		if s.Draw(c, 0, 6) != "" {
			t.Fatalf("%s: expected empty drawing for zero width", s.Name())
		}
	}
}
