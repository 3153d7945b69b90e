package analysis

import (
	"math"
	"math/rand"
	"testing"
)

func TestLevelFromTimeDomainSilenceIsZero(t *testing.T) {
	for _, n := range []int{1, 7, 512, 1024} {
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = 128
		}
		if got := LevelFromTimeDomain(buf); got != 0 {
			t.Fatalf("expected 0 for %d silent samples, got %v", n, got)
		}
	}
}

func TestLevelFromTimeDomainEmptyBuffer(t *testing.T) {
	if got := LevelFromTimeDomain(nil); got != 0 {
		t.Fatalf("expected 0 for empty buffer, got %v", got)
	}
}

func TestLevelFromTimeDomainClampsExtremes(t *testing.T) {
	full := make([]byte, 512)
	for i := range full {
		if i%2 == 0 {
			full[i] = 0
		} else {
			full[i] = 255
		}
	}
	if got := LevelFromTimeDomain(full); got != 100 {
		t.Fatalf("expected full-scale signal to clamp at 100, got %v", got)
	}

	rng := rand.New(rand.NewSource(1))
	buf := make([]byte, 512)
	for range 200 {
		rng.Read(buf)
		got := LevelFromTimeDomain(buf)
		if got < 0 || got > 100 {
			t.Fatalf("level out of range: %v", got)
		}
	}
}

func TestLevelFromTimeDomainScalesRMS(t *testing.T) {
	// Alternating 128±8 gives an RMS of 8/128 = 0.0625, so 18.75 after gain.
	buf := make([]byte, 256)
	for i := range buf {
		if i%2 == 0 {
			buf[i] = 136
		} else {
			buf[i] = 120
		}
	}
	got := LevelFromTimeDomain(buf)
	if math.Abs(got-18.75) > 1e-9 {
		t.Fatalf("expected 18.75, got %v", got)
	}
}

func TestBandRangePartitionsWithoutOverlap(t *testing.T) {
	tests := []struct {
		n, bands int
	}{
		{512, 16},
		{512, 8},
		{100, 16},
		{17, 4},
	}
	for _, tt := range tests {
		seen := make([]int, tt.n)
		for b := range tt.bands {
			lo, hi := BandRange(tt.n, b, tt.bands)
			for i := lo; i < hi; i++ {
				seen[i]++
			}
		}
		covered := tt.bands * (tt.n / tt.bands)
		for i, c := range seen {
			switch {
			case i < covered && c != 1:
				t.Fatalf("n=%d bands=%d: index %d used %d times", tt.n, tt.bands, i, c)
			case i >= covered && c != 0:
				t.Fatalf("n=%d bands=%d: remainder index %d was used", tt.n, tt.bands, i)
			}
		}
	}
}

func TestBandAverageScalesMean(t *testing.T) {
	freq := make([]byte, 512)
	// Band 3 of 16 covers [96, 128).
	for i := 96; i < 128; i++ {
		freq[i] = 255
	}
	if got := BandAverage(freq, 3, 16); got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
	if got := BandAverage(freq, 2, 16); got != 0 {
		t.Fatalf("expected neighbouring band to be 0, got %v", got)
	}
}

func TestBandAverageIgnoresRemainderTail(t *testing.T) {
	freq := make([]byte, 20)
	for i := 16; i < 20; i++ {
		freq[i] = 255
	}
	// 20/16 = 1 sample per band, so indices 16..19 are never read.
	for b := range 16 {
		if got := BandAverage(freq, b, 16); got != 0 {
			t.Fatalf("band %d read the remainder tail: %v", b, got)
		}
	}
}

func TestBandAverageOutOfRange(t *testing.T) {
	freq := []byte{255, 255}
	if got := BandAverage(freq, 0, 16); got != 0 {
		t.Fatalf("expected 0 when bands exceed buffer length, got %v", got)
	}
	if got := BandAverage(freq, 5, 2); got != 0 {
		t.Fatalf("expected 0 for out-of-range band, got %v", got)
	}
}
