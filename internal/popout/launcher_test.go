package popout

import (
	"context"
	"testing"
	"time"
)

func TestLaunchURLRoundTrip(t *testing.T) {
	station := "http://ice.example.com/groove?x=1&y=2"
	raw := LaunchURL("ws://127.0.0.1:4567/popout/ws", "abc-123", station, false)

	p, err := ParseLaunchURL(raw)
	if err != nil {
		t.Fatalf("ParseLaunchURL: %v", err)
	}
	if p.Session != "abc-123" || p.Station != station || p.Dark || p.Theme() != "light" {
		t.Fatalf("unexpected params %+v", p)
	}
	if p.Opener != raw {
		t.Fatalf("expected opener to be the full url, got %q", p.Opener)
	}
}

func TestParseLaunchURLErrors(t *testing.T) {
	for _, raw := range []string{
		"http://127.0.0.1/popout/ws?session=a",
		"ws://127.0.0.1/popout/ws?station=x",
		"::bad",
	} {
		if _, err := ParseLaunchURL(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestTerminalCommand(t *testing.T) {
	t.Setenv("TERMINAL", "")
	if got := TerminalCommand("kitty --single-instance"); len(got) != 2 || got[0] != "kitty" {
		t.Fatalf("expected configured command, got %v", got)
	}
	if got := TerminalCommand(""); got[0] != "x-terminal-emulator" || got[1] != "-e" {
		t.Fatalf("expected x-terminal-emulator fallback, got %v", got)
	}
	t.Setenv("TERMINAL", "alacritty")
	if got := TerminalCommand("  "); got[0] != "alacritty" || got[1] != "-e" {
		t.Fatalf("expected $TERMINAL, got %v", got)
	}
}

func TestProcessWindowClosedWhenLaunchFails(t *testing.T) {
	h := newTestHub(t)
	l := &ProcessLauncher{Hub: h, Executable: "vuradio", Terminal: []string{"false"}, ConnectGrace: time.Hour}
	w, err := l.Launch("http://radio.test/a", true)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	waitFor(t, w.Closed)
}

func TestProcessWindowOpenUntilGraceExpires(t *testing.T) {
	h := newTestHub(t)
	l := &ProcessLauncher{Hub: h, Executable: "vuradio", Terminal: []string{"true"}, ConnectGrace: 200 * time.Millisecond}
	w, err := l.Launch("http://radio.test/a", true)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if w.Closed() {
		t.Fatal("expected freshly launched window to be open")
	}
	waitFor(t, w.Closed)
}

func TestExpiredWindowRefusesLateConnect(t *testing.T) {
	h := newTestHub(t)
	l := &ProcessLauncher{Hub: h, Executable: "vuradio", Terminal: []string{"true"}, ConnectGrace: 50 * time.Millisecond}
	w, err := l.Launch("http://radio.test/a", true)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	id := w.(*processWindow).session
	waitFor(t, w.Closed)

	if _, err := Dial(context.Background(), LaunchURL(h.URL(), id, "http://radio.test/a", true)); err == nil {
		t.Fatal("expected a late pop-out to be refused")
	}
	if h.Seen(id) {
		t.Fatal("expected expired session never to be seen")
	}
}

func TestLaunchMissingTerminal(t *testing.T) {
	h := newTestHub(t)
	l := &ProcessLauncher{Hub: h, Executable: "vuradio", Terminal: []string{"/nonexistent/terminal"}}
	if _, err := l.Launch("http://radio.test/a", true); err == nil {
		t.Fatal("expected error for missing terminal")
	}
}
