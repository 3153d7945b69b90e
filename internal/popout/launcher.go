package popout

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/olivier-w/vuradio/internal/session"
)

// Compact pop-out size, in terminal cells.
const (
	PopoutColumns = 38
	PopoutRows    = 14
)

// DefaultConnectGrace is how long a launched pop-out may take to connect
// before its handle is considered stale.
const DefaultConnectGrace = 15 * time.Second

// Params are the values a pop-out is launched with.
type Params struct {
	Opener  string // websocket URL including the session query
	Session string
	Station string
	Dark    bool
}

// Theme returns "dark" or "light".
func (p Params) Theme() string {
	if p.Dark {
		return "dark"
	}
	return "light"
}

// LaunchURL builds the opener URL handed to a pop-out: base plus the session,
// station and theme query parameters.
func LaunchURL(base, sessionID, station string, dark bool) string {
	q := url.Values{}
	q.Set("session", sessionID)
	q.Set("station", station)
	p := Params{Dark: dark}
	q.Set("theme", p.Theme())
	return base + "?" + q.Encode()
}

// ParseLaunchURL is the inverse of LaunchURL.
func ParseLaunchURL(raw string) (Params, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Params{}, fmt.Errorf("parse opener url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return Params{}, fmt.Errorf("opener url %q: unsupported scheme %q", raw, u.Scheme)
	}
	q := u.Query()
	p := Params{
		Opener:  raw,
		Session: q.Get("session"),
		Station: q.Get("station"),
		Dark:    q.Get("theme") != "light",
	}
	if p.Session == "" {
		return Params{}, errors.New("opener url has no session")
	}
	return p, nil
}

// TerminalCommand resolves the command prefix used to open a new terminal
// window: the configured value, then $TERMINAL, then x-terminal-emulator.
func TerminalCommand(configured string) []string {
	if f := strings.Fields(configured); len(f) > 0 {
		return f
	}
	if t := os.Getenv("TERMINAL"); t != "" {
		return []string{t, "-e"}
	}
	return []string{"x-terminal-emulator", "-e"}
}

// ProcessLauncher runs "<terminal> <exe> popout --opener <url>" for each
// pop-out, with the hub carrying messages both ways.
type ProcessLauncher struct {
	Hub          *Hub
	Executable   string
	Terminal     []string
	ConnectGrace time.Duration
}

// NewProcessLauncher creates a launcher re-running the current executable.
func NewProcessLauncher(hub *Hub, terminal string) (*ProcessLauncher, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}
	return &ProcessLauncher{
		Hub:          hub,
		Executable:   exe,
		Terminal:     TerminalCommand(terminal),
		ConnectGrace: DefaultConnectGrace,
	}, nil
}

// Launch implements Launcher.
func (l *ProcessLauncher) Launch(station string, dark bool) (session.Window, error) {
	if len(l.Terminal) == 0 {
		return nil, errors.New("no terminal command configured")
	}
	id := l.Hub.NewSession()
	opener := LaunchURL(l.Hub.URL(), id, station, dark)

	args := append([]string{}, l.Terminal[1:]...)
	args = append(args, l.Executable, "popout", "--opener", opener)
	cmd := exec.Command(l.Terminal[0], args...)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("COLUMNS=%d", PopoutColumns),
		fmt.Sprintf("LINES=%d", PopoutRows),
	)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", l.Terminal[0], err)
	}
	log.Debug().Strs("cmd", cmd.Args).Msg("pop-out launched")

	w := &processWindow{
		hub:     l.Hub,
		session: id,
		started: time.Now(),
		grace:   l.ConnectGrace,
		exited:  make(chan struct{}),
	}
	go func() {
		w.exitErr = cmd.Wait()
		close(w.exited)
	}()
	return w, nil
}

// processWindow tracks a launched pop-out. Terminal emulators often detach
// from the process that started them, so liveness is judged by the hub
// socket once the pop-out has connected, and by the process before that.
type processWindow struct {
	hub     *Hub
	session string
	started time.Time
	grace   time.Duration

	exited  chan struct{}
	exitErr error
}

func (w *processWindow) Focus() error {
	return w.hub.Send(Message{Type: Focus})
}

func (w *processWindow) Closed() bool {
	if w.hub.Seen(w.session) {
		return !w.hub.Connected(w.session)
	}
	gone := false
	select {
	case <-w.exited:
		gone = w.exitErr != nil
	default:
	}
	if !gone && (w.grace <= 0 || time.Since(w.started) <= w.grace) {
		return false
	}
	// A pop-out that never connected must not start playing later.
	w.hub.Retire(w.session)
	return !w.hub.Seen(w.session)
}
