package analysis

import (
	"encoding/binary"
	"math"
	"testing"
)

func stereoPCM(frames int, left, right func(i int) float64) []byte {
	out := make([]byte, frames*4)
	for i := range frames {
		binary.LittleEndian.PutUint16(out[i*4:], uint16(int16(left(i)*32767)))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(int16(right(i)*32767)))
	}
	return out
}

func TestSplitterRoutesChannels(t *testing.T) {
	s := NewSplitter()
	pcm := stereoPCM(FFTSize, func(int) float64 { return 0.5 }, func(int) float64 { return 0 })
	if n, err := s.Write(pcm); err != nil || n != len(pcm) {
		t.Fatalf("Write returned %d, %v", n, err)
	}

	f := NewFrame(BinCount)
	s.Fill(Left, &f[Left])
	s.Fill(Right, &f[Right])

	if got := LevelFromTimeDomain(f[Right].TimeDomain); got != 0 {
		t.Fatalf("expected silent right channel, got level %v", got)
	}
	if got := LevelFromTimeDomain(f[Left].TimeDomain); got != 100 {
		t.Fatalf("expected left channel to peg the meter, got level %v", got)
	}
	if f[Left].TimeDomain[0] != 191 {
		t.Fatalf("expected 0.5 amplitude to encode as 191, got %d", f[Left].TimeDomain[0])
	}
}

func TestSplitterCarriesPartialFrames(t *testing.T) {
	s := NewSplitter()
	pcm := stereoPCM(4, func(int) float64 { return -1 }, func(int) float64 { return 1 })

	// Split mid-frame: 6 bytes then the rest.
	if _, err := s.Write(pcm[:6]); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Write(pcm[6:]); err != nil {
		t.Fatal(err)
	}

	td := make([]byte, 4)
	s.Analyser(Left).TimeDomain(td)
	for i, b := range td {
		if b != 0 {
			t.Fatalf("left sample %d: expected 0, got %d", i, b)
		}
	}
	s.Analyser(Right).TimeDomain(td)
	for i, b := range td {
		if b != 255 {
			t.Fatalf("right sample %d: expected 255, got %d", i, b)
		}
	}
}

func TestAnalyserFrequencyPeaksAtToneBin(t *testing.T) {
	const bin = 64
	a := NewAnalyser()
	samples := make([]float64, FFTSize)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*bin*float64(i)/FFTSize)
	}
	a.Write(samples)

	freq := make([]byte, BinCount)
	a.Frequency(freq)

	peak := 0
	for k := range freq {
		if freq[k] > freq[peak] {
			peak = k
		}
	}
	if peak != bin {
		t.Fatalf("expected peak at bin %d, got %d", bin, peak)
	}
	if freq[peak] == 0 {
		t.Fatal("expected non-zero magnitude at tone bin")
	}
}

func TestAnalyserSilenceAndReset(t *testing.T) {
	a := NewAnalyser()
	freq := make([]byte, BinCount)
	a.Frequency(freq)
	for k, v := range freq {
		if v != 0 {
			t.Fatalf("expected silent bin %d to be 0, got %d", k, v)
		}
	}

	a.Write([]float64{1, 1, 1})
	a.Reset()
	td := make([]byte, 8)
	a.TimeDomain(td)
	for i, b := range td {
		if b != 128 {
			t.Fatalf("expected midpoint after reset at %d, got %d", i, b)
		}
	}
}
