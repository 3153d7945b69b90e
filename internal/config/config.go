package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog/log"
)

// DirEnv overrides the config directory.
const DirEnv = "VURADIO_CONFIG_DIR"

const (
	fileName     = "config.json"
	stationsName = "stations.json"
	prefsName    = "prefs.json"
)

// Config holds the settings that survive between runs.
type Config struct {
	Volume       float64 `json:"volume"`
	Style        string  `json:"style"`
	FPS          int     `json:"fps"`
	Terminal     string  `json:"terminal,omitempty"`
	StationsFile string  `json:"stations_file,omitempty"`
	LastStation  string  `json:"last_station,omitempty"`

	dir string
}

// Default returns the configuration used on first run.
func Default() Config {
	return Config{
		Volume: 0.7,
		Style:  "led",
		FPS:    30,
	}
}

// Dir resolves the config directory: override, then $VURADIO_CONFIG_DIR, then
// ~/.config/vuradio.
func Dir(override string) (string, error) {
	d := override
	if d == "" {
		d = os.Getenv(DirEnv)
	}
	if d == "" {
		d = "~/.config/vuradio"
	}
	expanded, err := homedir.Expand(d)
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return expanded, nil
}

// Load reads config.json from dir, creating it with defaults when missing.
func Load(dir string) (Config, error) {
	path := filepath.Join(dir, fileName)
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		cfg.dir = dir
		if err := cfg.Save(); err != nil {
			return cfg, err
		}
		log.Debug().Msgf("config: created %s", path)
		return cfg, nil
	} else if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.dir = dir
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.Volume < 0 {
		c.Volume = 0
	}
	if c.Volume > 1 {
		c.Volume = 1
	}
	if c.FPS <= 0 || c.FPS > 120 {
		c.FPS = Default().FPS
	}
}

// Save writes the config back to its directory.
func (c Config) Save() error {
	if c.dir == "" {
		return errors.New("config has no directory")
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	b, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, fileName), b, 0o644)
}

// Directory returns the directory the config was loaded from.
func (c Config) Directory() string { return c.dir }

// StationsPath returns the station file to load: the configured one, expanded,
// or stations.json in the config dir.
func (c Config) StationsPath() string {
	if c.StationsFile != "" {
		if p, err := homedir.Expand(c.StationsFile); err == nil {
			return p
		}
		return c.StationsFile
	}
	return filepath.Join(c.dir, stationsName)
}

// PrefsPath returns the key-value preference store path.
func (c Config) PrefsPath() string {
	return filepath.Join(c.dir, prefsName)
}
