// Package player streams internet radio to the audio device and taps the
// decoded PCM for analysis.
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/olivier-w/vuradio/internal/media"
)

const (
	streamHeaderTimeout = 10 * time.Second
	watchInterval       = 250 * time.Millisecond
	userAgent           = "vuradio"
)

var (
	// ErrNoStation is returned by Play when no station is selected.
	ErrNoStation = errors.New("no station selected")
	// ErrClosed is returned by Play after Close.
	ErrClosed = errors.New("player closed")
	// ErrStreamEnded reports that the server closed the stream.
	ErrStreamEnded = errors.New("stream ended")
)

// decoderFor is replaced in tests.
var decoderFor = newDecoder

var streamHTTPClient = &http.Client{
	Transport: &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DisableCompression:    true,
		ResponseHeaderTimeout: streamHeaderTimeout,
	},
}

// Player plays one station at a time. Play and Pause return immediately;
// connecting and decoding happen on a goroutine that reports through Events.
type Player struct {
	mu      sync.Mutex
	out     output
	openOut func() (output, error)
	client  *http.Client
	tap     io.Writer

	station string
	volume  float64
	state   State
	gen     uint64

	cancel context.CancelFunc
	src    *source
	sink   outputPlayer

	events chan Event
	closed bool
}

// Option configures a Player.
type Option func(*Player)

// WithTap copies decoded 16-bit stereo PCM to w as it is played.
func WithTap(w io.Writer) Option {
	return func(p *Player) { p.tap = w }
}

// WithHTTPClient sets the client used for playlists and streams.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Player) { p.client = c }
}

func withOutput(open func() (output, error)) Option {
	return func(p *Player) { p.openOut = open }
}

// New creates a stopped player. The audio device is opened on first Play.
func New(station string, volume float64, opts ...Option) *Player {
	p := &Player{
		openOut: newOtoOutput,
		client:  streamHTTPClient,
		station: station,
		volume:  clampVolume(volume),
		events:  make(chan Event, 16),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Events delivers stream notifications. It is never closed.
func (p *Player) Events() <-chan Event {
	return p.events
}

// Play starts, or restarts, streaming the current station. Errors returned
// here are immediate (no station, audio device); connection and decode
// failures arrive later as EventError.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	if p.station == "" {
		return ErrNoStation
	}
	if p.out == nil {
		out, err := p.openOut()
		if err != nil {
			return fmt.Errorf("opening audio output: %w", err)
		}
		p.out = out
	}
	if err := p.out.Resume(); err != nil {
		return fmt.Errorf("resuming audio output: %w", err)
	}

	p.stopLocked()
	p.gen++
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.state = StateConnecting
	go p.run(ctx, p.gen, p.station)
	return nil
}

// Pause stops the stream and suspends the audio device. Live radio cannot
// be resumed in place, so the next Play reconnects.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	if p.state != StateStopped {
		p.state = StatePaused
	}
	if p.out != nil {
		if err := p.out.Suspend(); err != nil {
			log.Debug().Err(err).Msg("suspend audio output")
		}
	}
}

// SetStation selects the station for the next Play.
func (p *Player) SetStation(url string) {
	p.mu.Lock()
	p.station = url
	p.mu.Unlock()
	if r, ok := p.tap.(interface{ Reset() }); ok {
		r.Reset()
	}
}

// Station returns the selected station URL.
func (p *Player) Station() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.station
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0) and applies it immediately.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = clampVolume(v)
	if p.sink != nil {
		p.sink.SetVolume(p.volume)
	}
}

// State returns the transport state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Generation returns the id of the most recent Play call.
func (p *Player) Generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gen
}

// Close stops playback. Later calls are no-ops.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.stopLocked()
	p.state = StateStopped
}

func (p *Player) stopLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if p.sink != nil {
		p.sink.Pause()
		p.sink = nil
	}
	if p.src != nil {
		_ = p.src.Close()
		p.src = nil
	}
}

func (p *Player) run(ctx context.Context, gen uint64, station string) {
	src, err := openSource(ctx, p.client, station)
	if err != nil {
		p.fail(gen, err)
		return
	}

	var r io.Reader = src.pcm
	if p.tap != nil {
		r = io.TeeReader(r, p.tap)
	}

	p.mu.Lock()
	if p.gen != gen || p.closed {
		p.mu.Unlock()
		_ = src.Close()
		return
	}
	sink := p.out.NewPlayer(r)
	sink.SetVolume(p.volume)
	sink.Play()
	p.src = src
	p.sink = sink
	p.state = StatePlaying
	p.mu.Unlock()

	log.Info().Str("station", station).Str("codec", string(src.codec)).Msg("stream started")
	p.emit(Event{Kind: EventStarted, Generation: gen})

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()
	titles := src.titles
	for {
		select {
		case <-ctx.Done():
			return
		case title := <-titles:
			p.emit(Event{Kind: EventTitle, Generation: gen, Title: title})
		case <-ticker.C:
			if err := sink.Err(); err != nil {
				p.fail(gen, err)
				return
			}
			if !sink.IsPlaying() {
				p.fail(gen, ErrStreamEnded)
				return
			}
		}
	}
}

func (p *Player) fail(gen uint64, err error) {
	p.mu.Lock()
	if p.gen != gen || p.closed {
		p.mu.Unlock()
		return
	}
	p.stopLocked()
	p.state = StateError
	p.mu.Unlock()

	if errors.Is(err, context.Canceled) {
		return
	}
	log.Error().Err(err).Uint64("generation", gen).Msg("stream failed")
	p.emit(Event{Kind: EventError, Generation: gen, Err: err})
}

func (p *Player) emit(ev Event) {
	select {
	case p.events <- ev:
	default:
		log.Warn().Int("kind", int(ev.Kind)).Msg("player event dropped")
	}
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// source is an open stream: the HTTP body and the decode chain on top of it.
type source struct {
	body   io.Closer
	dec    audioDecoder
	pcm    io.Reader
	codec  media.Codec
	titles <-chan string
}

func (s *source) Close() error {
	var err error
	if s.dec != nil {
		err = s.dec.Close()
	}
	if s.body != nil {
		if cerr := s.body.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func openSource(ctx context.Context, client *http.Client, station string) (*source, error) {
	streamURL, err := media.ResolveStream(ctx, client, station)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", station, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building stream request: %w", err)
	}
	req.Header.Set("Icy-MetaData", "1")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connecting to stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("connecting to stream: unexpected status %s", resp.Status)
	}

	src := &source{
		body:  resp.Body,
		codec: media.DetectCodec(resp.Header.Get("Content-Type"), streamURL),
	}
	var body io.Reader = resp.Body
	if metaInt, err := parseICYMetaInt(resp.Header.Get("icy-metaint")); err == nil {
		ir := newICYReader(resp.Body, metaInt)
		src.titles = ir.Titles()
		body = ir
	}

	dec, err := decoderFor(src.codec, body)
	if err != nil {
		resp.Body.Close()
		return nil, err
	}
	src.dec = dec
	src.pcm = newConverter(dec, dec.SampleRate(), dec.ChannelCount())
	return src, nil
}
