package player

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

func pcm16(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func samples16(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}
	return out
}

func TestConverterPassthrough(t *testing.T) {
	src := bytes.NewReader(pcm16(1, 2, 3, 4))
	if r := newConverter(src, sampleRate, channelCount); r != io.Reader(src) {
		t.Fatal("expected matching format to pass through unchanged")
	}
}

func TestConverterUpmixesMono(t *testing.T) {
	r := newConverter(bytes.NewReader(pcm16(100, -200, 300)), sampleRate, 1)
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	got := samples16(out)
	want := []int16{100, 100, -200, -200, 300, 300}
	if len(got) < len(want)-2 {
		t.Fatalf("expected at least %d samples, got %v", len(want)-2, got)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("sample %d: expected %d, got %d (%v)", i, want[i], got[i], got)
		}
	}
}

func TestConverterUpsamplesByInterpolation(t *testing.T) {
	// 22.05 kHz stereo doubles to 44.1 kHz with midpoints in between.
	src := pcm16(0, 0, 1000, -1000, 2000, -2000)
	out, err := io.ReadAll(newConverter(bytes.NewReader(src), sampleRate/2, 2))
	if err != nil {
		t.Fatal(err)
	}
	got := samples16(out)
	want := []int16{0, 0, 500, -500, 1000, -1000, 1500, -1500}
	if len(got) < len(want) {
		t.Fatalf("expected at least %d samples, got %v", len(want), got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("sample %d: expected %d, got %d (%v)", i, w, got[i], got)
		}
	}
}

func TestConverterDropsExtraChannels(t *testing.T) {
	src := pcm16(1, 2, 3, 4, 5, 6)
	out, err := io.ReadAll(newConverter(bytes.NewReader(src), sampleRate, 3))
	if err != nil {
		t.Fatal(err)
	}
	got := samples16(out)
	if len(got) < 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected first two channels kept, got %v", got)
	}
}

func TestConverterEmptySource(t *testing.T) {
	r := newConverter(bytes.NewReader(nil), 48000, 2)
	buf := make([]byte, 64)
	if _, err := r.Read(buf); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}
