// Package frame schedules the render loop as a chain of one-shot ticks. Each
// tick carries the token it was scheduled with; only the currently pending
// token is honored, so at most one frame callback is ever in flight.
package frame

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultInterval is the frame period at 30 frames per second.
const DefaultInterval = time.Second / 30

// Token identifies a scheduled frame. The zero token means none.
type Token uint64

// Msg is delivered to Update when a scheduled frame fires.
type Msg struct {
	Token Token
	Time  time.Time
}

// Loop is a cancellable repeating task. It is driven from a Bubble Tea
// Update function and is not safe for concurrent use.
type Loop struct {
	interval time.Duration
	last     Token
	pending  Token

	done     chan struct{}
	stopOnce sync.Once
	stopped  bool
}

// NewLoop creates a loop ticking every interval. A non-positive
// interval selects DefaultInterval.
func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{interval: interval, done: make(chan struct{})}
}

// FPSInterval converts a frame rate to a tick interval.
func FPSInterval(fps int) time.Duration {
	if fps <= 0 {
		return DefaultInterval
	}
	return time.Second / time.Duration(fps)
}

// Interval returns the tick period.
func (l *Loop) Interval() time.Duration { return l.interval }

// Start schedules the first frame. It returns nil if a frame is already
// pending or the loop has been stopped.
func (l *Loop) Start() tea.Cmd {
	if l.stopped || l.pending != 0 {
		return nil
	}
	return l.schedule()
}

// Accept reports whether msg is the pending frame. When it is, the next frame
// is scheduled before the caller does any work and its command is returned.
// Stale or cancelled frames are dropped without rescheduling.
func (l *Loop) Accept(msg Msg) (bool, tea.Cmd) {
	if l.stopped || msg.Token == 0 || msg.Token != l.pending {
		return false, nil
	}
	return true, l.schedule()
}

// Pending returns the token of the scheduled frame, or zero.
func (l *Loop) Pending() Token { return l.pending }

// Stop cancels the pending frame. Only the first call has any effect; it
// reports whether this call did the teardown.
func (l *Loop) Stop() bool {
	stopped := false
	l.stopOnce.Do(func() {
		l.stopped = true
		l.pending = 0
		close(l.done)
		stopped = true
	})
	return stopped
}

// Stopped reports whether Stop has been called.
func (l *Loop) Stopped() bool { return l.stopped }

func (l *Loop) schedule() tea.Cmd {
	l.last++
	tok := l.last
	l.pending = tok
	d, done := l.interval, l.done
	return func() tea.Msg {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case now := <-t.C:
			return Msg{Token: tok, Time: now}
		case <-done:
			return nil
		}
	}
}
