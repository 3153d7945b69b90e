package station

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoStations is returned when a station file parses to an empty list.
var ErrNoStations = errors.New("station list is empty")

// Station is a named stream endpoint.
type Station struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Title, Description and FilterValue satisfy bubbles' list.Item.
func (s Station) Title() string       { return s.Name }
func (s Station) Description() string { return s.URL }
func (s Station) FilterValue() string { return s.Name }

// Defaults is the built-in station list.
var Defaults = []Station{
	{Name: "SomaFM Groove Salad", URL: "https://ice1.somafm.com/groovesalad-128-mp3"},
	{Name: "SomaFM Drone Zone", URL: "https://ice1.somafm.com/dronezone-128-mp3"},
	{Name: "Radio Paradise Main Mix", URL: "https://stream.radioparadise.com/mp3-192"},
	{Name: "Radio Paradise Mellow Mix", URL: "https://stream.radioparadise.com/mellow-192"},
	{Name: "KEXP 90.3 FM", URL: "https://kexp.streamguys1.com/kexp160.aac"},
	{Name: "SomaFM Secret Agent (pls)", URL: "https://somafm.com/secretagent130.pls"},
}

// List is an ordered station list with a current position.
// It is only mutated from Bubbletea's single-threaded Update loop.
type List struct {
	stations []Station
	current  int
}

// New creates a List from the given stations. An empty slice falls back to
// Defaults.
func New(stations []Station) *List {
	if len(stations) == 0 {
		stations = Defaults
	}
	s := make([]Station, len(stations))
	copy(s, stations)
	return &List{stations: s}
}

// Load reads a JSON array of {name,url} objects from path.
func Load(path string) (*List, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stations: %w", err)
	}
	var stations []Station
	if err := json.Unmarshal(b, &stations); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	valid := stations[:0]
	for _, s := range stations {
		s.URL = strings.TrimSpace(s.URL)
		if s.URL == "" {
			continue
		}
		if s.Name == "" {
			s.Name = s.URL
		}
		valid = append(valid, s)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoStations)
	}
	return New(valid), nil
}

// Current returns the current station.
func (l *List) Current() Station {
	return l.stations[l.current]
}

// CurrentIndex returns the zero-based index of the current station.
func (l *List) CurrentIndex() int {
	return l.current
}

// Next moves to the following station, wrapping at the end.
func (l *List) Next() Station {
	l.current = (l.current + 1) % len(l.stations)
	return l.Current()
}

// Previous moves to the preceding station, wrapping at the start.
func (l *List) Previous() Station {
	l.current = (l.current - 1 + len(l.stations)) % len(l.stations)
	return l.Current()
}

// Select sets the current index directly. Out-of-range indexes are ignored.
func (l *List) Select(i int) bool {
	if i < 0 || i >= len(l.stations) {
		return false
	}
	l.current = i
	return true
}

// IndexOf returns the index of the station whose URL or name matches s
// (case-insensitive for names), or -1.
func (l *List) IndexOf(s string) int {
	for i, st := range l.stations {
		if st.URL == s {
			return i
		}
	}
	for i, st := range l.stations {
		if strings.EqualFold(st.Name, s) {
			return i
		}
	}
	return -1
}

// Len returns the number of stations.
func (l *List) Len() int {
	return len(l.stations)
}

// All returns a copy of the stations in order.
func (l *List) All() []Station {
	out := make([]Station, len(l.stations))
	copy(out, l.stations)
	return out
}
