package player

import (
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate   = 44100
	channelCount = 2
	bitDepth     = 2 // 16-bit = 2 bytes
	frameSize    = channelCount * bitDepth
)

// output is the audio device: one shared context producing players.
type output interface {
	NewPlayer(r io.Reader) outputPlayer
	Suspend() error
	Resume() error
}

// outputPlayer is a single stream playing on the device.
type outputPlayer interface {
	Play()
	Pause()
	SetVolume(v float64)
	IsPlaying() bool
	Err() error
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

type otoOutput struct {
	ctx *oto.Context
}

func newOtoOutput() (output, error) {
	ctx, err := initOto()
	if err != nil {
		return nil, err
	}
	return otoOutput{ctx: ctx}, nil
}

func (o otoOutput) NewPlayer(r io.Reader) outputPlayer { return o.ctx.NewPlayer(r) }
func (o otoOutput) Suspend() error                     { return o.ctx.Suspend() }
func (o otoOutput) Resume() error                      { return o.ctx.Resume() }
