package analysis

import (
	"math"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

const (
	// FFTSize is the analysis window length in samples.
	FFTSize = 1024
	// BinCount is the number of frequency bins and the frame buffer length.
	BinCount = FFTSize / 2

	defaultSmoothing = 0.8
	minDecibels      = -100.0
	maxDecibels      = -30.0
)

// Analyser keeps the most recent FFTSize samples of one channel and derives
// byte time-domain and frequency snapshots from them, using the same scaling
// as a browser AnalyserNode.
type Analyser struct {
	mu        sync.Mutex
	ring      []float64
	pos       int
	smoothing float64

	fft      *fourier.FFT
	window   []float64
	windowed []float64
	coeffs   []complex128
	smoothed []float64
}

// NewAnalyser creates an analyser with a Blackman window and 0.8 smoothing.
func NewAnalyser() *Analyser {
	w := make([]float64, FFTSize)
	for i := range w {
		w[i] = 1
	}
	return &Analyser{
		ring:      make([]float64, FFTSize),
		smoothing: defaultSmoothing,
		fft:       fourier.NewFFT(FFTSize),
		window:    window.Blackman(w),
		windowed:  make([]float64, FFTSize),
		coeffs:    make([]complex128, FFTSize/2+1),
		smoothed:  make([]float64, BinCount),
	}
}

// Write appends samples in [-1, 1], overwriting the oldest ones.
func (a *Analyser) Write(samples []float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, s := range samples {
		a.ring[a.pos] = s
		a.pos = (a.pos + 1) % len(a.ring)
	}
}

// Reset clears the sample history and the spectral smoothing state.
func (a *Analyser) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	clear(a.ring)
	clear(a.smoothed)
	a.pos = 0
}

// TimeDomain fills dst with the most recent len(dst) samples in chronological
// order, encoded as 128 + s*128 and clamped to a byte.
func (a *Analyser) TimeDomain(dst []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := len(dst)
	if n > len(a.ring) {
		n = len(a.ring)
	}
	start := (a.pos - n + len(a.ring)) % len(a.ring)
	for i := range n {
		s := a.ring[(start+i)%len(a.ring)]
		dst[i] = clampByte(math.Floor(byteMidpoint * (1 + s)))
	}
}

// Frequency fills dst with smoothed bin magnitudes mapped from
// [-100 dB, -30 dB] onto [0, 255]. Each call advances the smoothing state.
func (a *Analyser) Frequency(dst []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range FFTSize {
		a.windowed[i] = a.ring[(a.pos+i)%len(a.ring)] * a.window[i]
	}
	a.coeffs = a.fft.Coefficients(a.coeffs, a.windowed)

	scale := 255 / (maxDecibels - minDecibels)
	for k := range BinCount {
		mag := cmplx.Abs(a.coeffs[k]) / FFTSize
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
		if k >= len(dst) {
			continue
		}
		if a.smoothed[k] <= 0 {
			dst[k] = 0
			continue
		}
		db := 20 * math.Log10(a.smoothed[k])
		dst[k] = clampByte(math.Floor(scale * (db - minDecibels)))
	}
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
