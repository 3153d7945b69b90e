package frame

import (
	"testing"
	"time"
)

func TestStartSchedulesOnce(t *testing.T) {
	l := NewLoop(time.Millisecond)
	if cmd := l.Start(); cmd == nil {
		t.Fatal("expected first Start to schedule a frame")
	}
	first := l.Pending()
	if first == 0 {
		t.Fatal("expected pending token after Start")
	}
	if cmd := l.Start(); cmd != nil {
		t.Fatal("expected second Start to be a no-op while a frame is pending")
	}
	if l.Pending() != first {
		t.Fatalf("expected pending token %d, got %d", first, l.Pending())
	}
}

func TestAcceptReschedulesBeforeWork(t *testing.T) {
	l := NewLoop(time.Millisecond)
	cmd := l.Start()
	msg, ok := cmd().(Msg)
	if !ok {
		t.Fatal("expected frame message from scheduled command")
	}

	accepted, next := l.Accept(msg)
	if !accepted || next == nil {
		t.Fatal("expected pending frame to be accepted and rescheduled")
	}
	if l.Pending() == msg.Token {
		t.Fatal("expected a fresh token after reschedule")
	}

	// The old token is now stale.
	if accepted, next := l.Accept(msg); accepted || next != nil {
		t.Fatal("expected stale frame to be dropped")
	}
}

func TestAcceptZeroTokenIgnored(t *testing.T) {
	l := NewLoop(time.Millisecond)
	if accepted, _ := l.Accept(Msg{}); accepted {
		t.Fatal("expected zero token to be ignored")
	}
}

func TestStopCancelsPendingFrame(t *testing.T) {
	l := NewLoop(time.Hour)
	cmd := l.Start()
	tok := l.Pending()

	if !l.Stop() {
		t.Fatal("expected first Stop to tear down")
	}
	if l.Stop() {
		t.Fatal("expected second Stop to be a no-op")
	}
	if l.Pending() != 0 {
		t.Fatalf("expected no pending token after Stop, got %d", l.Pending())
	}

	done := make(chan any, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		if msg != nil {
			t.Fatalf("expected cancelled frame to yield nil, got %#v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled frame did not return")
	}

	if accepted, next := l.Accept(Msg{Token: tok}); accepted || next != nil {
		t.Fatal("expected cancelled token never to reschedule")
	}
	if l.Start() != nil {
		t.Fatal("expected stopped loop not to restart")
	}
}

func TestFPSInterval(t *testing.T) {
	if got := FPSInterval(30); got != DefaultInterval {
		t.Fatalf("expected %v, got %v", DefaultInterval, got)
	}
	if got := FPSInterval(0); got != DefaultInterval {
		t.Fatalf("expected default for 0 fps, got %v", got)
	}
	if got := FPSInterval(10); got != 100*time.Millisecond {
		t.Fatalf("expected 100ms, got %v", got)
	}
}
