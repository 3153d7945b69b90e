package theme

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
)

// Key is the store key holding the explicit theme choice.
const Key = "theme"

// Theme names as stored and passed to the pop-out.
const (
	Dark  = "dark"
	Light = "light"
)

// SchemeEnv forces the system color scheme ("dark" or "light").
const SchemeEnv = "VURADIO_COLOR_SCHEME"

// Name returns the theme name for a dark flag.
func Name(dark bool) string {
	if dark {
		return Dark
	}
	return Light
}

// Parse maps a theme name to a dark flag.
func Parse(s string) (dark bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case Dark:
		return true, true
	case Light:
		return false, true
	}
	return false, false
}

// Detector reports the current system color scheme.
type Detector func() bool

var (
	terminalOnce sync.Once
	terminalDark bool
)

// SystemDark reports the OS-level color-scheme preference. The environment
// override wins, then the desktop setting, then the terminal background,
// which is queried once per process.
func SystemDark() bool {
	if dark, ok := Parse(os.Getenv(SchemeEnv)); ok {
		return dark
	}
	if dark, ok := desktopDark(); ok {
		return dark
	}
	terminalOnce.Do(func() {
		terminalDark = lipgloss.HasDarkBackground()
	})
	return terminalDark
}

func desktopDark() (bool, bool) {
	switch runtime.GOOS {
	case "darwin":
		out, err := exec.Command("defaults", "read", "-g", "AppleInterfaceStyle").Output()
		if err != nil {
			// The key is absent in light mode.
			if _, ok := err.(*exec.ExitError); ok {
				return false, true
			}
			return false, false
		}
		return strings.Contains(strings.ToLower(string(out)), "dark"), true
	case "linux", "freebsd", "openbsd":
		out, err := exec.Command("gsettings", "get", "org.gnome.desktop.interface", "color-scheme").Output()
		if err != nil {
			return false, false
		}
		v := strings.Trim(strings.TrimSpace(string(out)), "'")
		switch v {
		case "prefer-dark":
			return true, true
		case "prefer-light":
			return false, true
		}
	}
	return false, false
}

// Preference resolves the active theme: an explicit stored choice wins,
// otherwise the system preference is followed.
type Preference struct {
	store  *Store
	detect Detector

	dark     bool
	explicit bool
}

// NewPreference resolves the initial theme from store. A nil detect uses
// SystemDark.
func NewPreference(store *Store, detect Detector) *Preference {
	if detect == nil {
		detect = SystemDark
	}
	p := &Preference{store: store, detect: detect}
	p.resolve()
	return p
}

func (p *Preference) resolve() {
	if p.store != nil {
		if v, ok := p.store.Get(Key); ok {
			if dark, ok := Parse(v); ok {
				p.dark = dark
				p.explicit = true
				return
			}
			log.Warn().Msgf("theme: ignoring stored value %q", v)
		}
	}
	p.explicit = false
	p.dark = p.detect()
}

// Dark reports whether the dark theme is active.
func (p *Preference) Dark() bool { return p.dark }

// Explicit reports whether a stored choice is in effect.
func (p *Preference) Explicit() bool { return p.explicit }

// Name returns "dark" or "light".
func (p *Preference) Name() string { return Name(p.dark) }

// Toggle flips the theme and persists the choice.
func (p *Preference) Toggle() error {
	p.dark = !p.dark
	p.explicit = true
	if p.store == nil {
		return nil
	}
	return p.store.Set(Key, Name(p.dark))
}

// Apply sets the theme for this process without persisting it.
func (p *Preference) Apply(dark bool) {
	p.dark = dark
	p.explicit = true
}

// Detect queries the system preference. It may shell out, so callers in a
// Bubble Tea program run it from a command rather than from Update.
func (p *Preference) Detect() bool { return p.detect() }

// Follow adopts a detected system preference while no explicit choice is in
// effect. It reports whether the theme changed.
func (p *Preference) Follow(dark bool) bool {
	if p.explicit {
		return false
	}
	changed := dark != p.dark
	p.dark = dark
	return changed
}

// Refresh is Detect followed by Follow.
func (p *Preference) Refresh() bool {
	if p.explicit {
		return false
	}
	return p.Follow(p.Detect())
}

// Reload re-reads the store, picking up choices made by another process. It
// reports whether the theme changed.
func (p *Preference) Reload() (bool, error) {
	if p.store == nil {
		return false, nil
	}
	if err := p.store.Reload(); err != nil {
		return false, err
	}
	was := p.dark
	p.resolve()
	return was != p.dark, nil
}
