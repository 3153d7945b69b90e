package player

import (
	"bufio"
	"encoding/binary"
	"io"
)

// converter adapts decoder output of any rate and channel count to the
// device format (44.1 kHz 16-bit stereo) by linear interpolation. Mono is
// duplicated; channels beyond the first two are dropped.
type converter struct {
	src      *bufio.Reader
	channels int
	step     float64
	frac     float64

	prev, next [2]float64
	raw        []byte
	primed     bool
	err        error
}

// newConverter returns r unchanged when it already matches the device.
func newConverter(r io.Reader, rate, channels int) io.Reader {
	if rate == sampleRate && channels == channelCount {
		return r
	}
	if rate <= 0 {
		rate = sampleRate
	}
	if channels <= 0 {
		channels = channelCount
	}
	return &converter{
		src:      bufio.NewReaderSize(r, 16<<10),
		channels: channels,
		step:     float64(rate) / sampleRate,
		raw:      make([]byte, channels*bitDepth),
	}
}

func (c *converter) readFrame() ([2]float64, error) {
	var f [2]float64
	if _, err := io.ReadFull(c.src, c.raw); err != nil {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return f, err
	}
	left := float64(int16(binary.LittleEndian.Uint16(c.raw)))
	right := left
	if c.channels > 1 {
		right = float64(int16(binary.LittleEndian.Uint16(c.raw[2:])))
	}
	f[0], f[1] = left, right
	return f, nil
}

func (c *converter) Read(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	if !c.primed {
		first, err := c.readFrame()
		if err != nil {
			c.err = err
			return 0, err
		}
		second, err := c.readFrame()
		if err != nil {
			second = first
		}
		c.prev, c.next = first, second
		c.primed = true
	}

	n := 0
	for n+frameSize <= len(p) {
		for c.frac >= 1 {
			f, err := c.readFrame()
			if err != nil {
				c.err = err
				if n == 0 {
					return 0, err
				}
				return n, nil
			}
			c.prev, c.next = c.next, f
			c.frac--
		}
		for ch := range channelCount {
			v := c.prev[ch] + (c.next[ch]-c.prev[ch])*c.frac
			binary.LittleEndian.PutUint16(p[n+ch*bitDepth:], uint16(clampInt16(int(v))))
		}
		n += frameSize
		c.frac += c.step
	}
	return n, nil
}
