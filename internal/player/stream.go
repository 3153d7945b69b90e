package player

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/olivier-w/vuradio/internal/media"
)

// ErrUnsupportedCodec is returned when a stream needs ffmpeg and it is not
// installed.
var ErrUnsupportedCodec = errors.New("unsupported stream codec")

// lookFFmpeg is replaced in tests.
var lookFFmpeg = func() (string, error) { return exec.LookPath("ffmpeg") }

// streamDecoder pipes the stream body through an ffmpeg subprocess that
// emits 44.1 kHz 16-bit stereo PCM.
type streamDecoder struct {
	cmd       *exec.Cmd
	stdout    io.ReadCloser
	waitDone  chan struct{}
	closeOnce sync.Once
}

func newStreamDecoder(r io.Reader, codec media.Codec) (*streamDecoder, error) {
	ffmpeg, err := lookFFmpeg()
	if err != nil {
		name := string(codec)
		if name == "" {
			name = "unknown"
		}
		return nil, fmt.Errorf("%w: %s (ffmpeg not found)", ErrUnsupportedCodec, name)
	}

	cmd := exec.Command(
		ffmpeg,
		"-hide_banner",
		"-loglevel", "error",
		"-i", "pipe:0",
		"-vn",
		"-ac", "2",
		"-ar", "44100",
		"-f", "s16le",
		"pipe:1",
	)
	cmd.Stdin = r
	cmd.Stderr = io.Discard

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("setting up ffmpeg stream: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting ffmpeg stream: %w", err)
	}

	d := &streamDecoder{
		cmd:      cmd,
		stdout:   stdout,
		waitDone: make(chan struct{}),
	}
	go func() {
		_ = cmd.Wait()
		close(d.waitDone)
	}()
	return d, nil
}

func (d *streamDecoder) Read(p []byte) (int, error) {
	return d.stdout.Read(p)
}

func (d *streamDecoder) SampleRate() int   { return sampleRate }
func (d *streamDecoder) ChannelCount() int { return channelCount }

func (d *streamDecoder) Close() error {
	d.closeOnce.Do(func() {
		if d.cmd != nil && d.cmd.Process != nil {
			_ = d.cmd.Process.Kill()
		}
		<-d.waitDone
	})
	return nil
}
