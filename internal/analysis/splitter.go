package analysis

import (
	"encoding/binary"
	"sync"
)

const frameBytes = 4 // 16-bit stereo

// Splitter taps interleaved 16-bit little-endian stereo PCM and routes each
// channel into its own Analyser. It is safe to write from the audio goroutine
// while the frame loop reads snapshots.
type Splitter struct {
	analysers [2]*Analyser

	mu    sync.Mutex
	carry []byte
	left  []float64
	right []float64
}

// NewSplitter creates a splitter feeding two fresh analysers.
func NewSplitter() *Splitter {
	return &Splitter{analysers: [2]*Analyser{NewAnalyser(), NewAnalyser()}}
}

// Write implements io.Writer. Partial frames are held until the rest arrives.
func (s *Splitter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := p
	if len(s.carry) > 0 {
		data = append(s.carry, p...)
		s.carry = nil
	}

	frames := len(data) / frameBytes
	s.left = s.left[:0]
	s.right = s.right[:0]
	for i := range frames {
		off := i * frameBytes
		l := int16(binary.LittleEndian.Uint16(data[off:]))
		r := int16(binary.LittleEndian.Uint16(data[off+2:]))
		s.left = append(s.left, float64(l)/32768.0)
		s.right = append(s.right, float64(r)/32768.0)
	}
	if rem := len(data) % frameBytes; rem != 0 {
		s.carry = append([]byte(nil), data[len(data)-rem:]...)
	}

	s.analysers[Left].Write(s.left)
	s.analysers[Right].Write(s.right)
	return len(p), nil
}

// Analyser returns the analyser for ch.
func (s *Splitter) Analyser(ch Channel) *Analyser {
	return s.analysers[ch]
}

// Fill refreshes b with the current time-domain and frequency snapshot of ch.
func (s *Splitter) Fill(ch Channel, b *Buffers) {
	a := s.analysers[ch]
	a.TimeDomain(b.TimeDomain)
	a.Frequency(b.Frequency)
}

// Reset drops buffered history on both channels, e.g. after a station change.
func (s *Splitter) Reset() {
	s.mu.Lock()
	s.carry = nil
	s.mu.Unlock()
	for _, a := range s.analysers {
		a.Reset()
	}
}
