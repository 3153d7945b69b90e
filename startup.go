package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/olivier-w/vuradio/internal/analysis"
	"github.com/olivier-w/vuradio/internal/config"
	"github.com/olivier-w/vuradio/internal/dispatch"
	"github.com/olivier-w/vuradio/internal/frame"
	"github.com/olivier-w/vuradio/internal/player"
	"github.com/olivier-w/vuradio/internal/popout"
	"github.com/olivier-w/vuradio/internal/session"
	"github.com/olivier-w/vuradio/internal/station"
	"github.com/olivier-w/vuradio/internal/theme"
	"github.com/olivier-w/vuradio/internal/ui"
	"github.com/olivier-w/vuradio/internal/visualizer"
)

func loadConfig() (config.Config, error) {
	dir, err := config.Dir(flags.configDir)
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(dir)
}

// loadStations reads the station file, falling back to the built-in list
// when it is missing or unusable.
func loadStations(cfg config.Config) *station.List {
	list, err := station.Load(cfg.StationsPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Msg("using built-in stations")
		}
		return station.New(nil)
	}
	return list
}

// styleIndex resolves a style name, falling back to the default.
func styleIndex(name string) int {
	if name == "" {
		return visualizer.DefaultStyle
	}
	if i := visualizer.IndexOf(name); i >= 0 {
		return i
	}
	log.Warn().Str("style", name).Msg("unknown style, using default")
	return visualizer.DefaultStyle
}

// openTheme opens the preference store and its watcher. Failures degrade to
// following the system preference without persistence.
func openTheme(ctx context.Context, cfg config.Config) (*theme.Preference, <-chan struct{}) {
	store, err := theme.OpenStore(cfg.PrefsPath())
	if err != nil {
		log.Warn().Err(err).Msg("preferences unavailable")
		return theme.NewPreference(nil, nil), nil
	}
	changed, err := theme.Watch(ctx, store.Path())
	if err != nil {
		log.Warn().Err(err).Msg("not watching preferences")
		changed = nil
	}
	return theme.NewPreference(store, nil), changed
}

func runPlayer(cmd *cobra.Command, args []string) error {
	logs, err := setupLogging()
	if err != nil {
		return err
	}
	defer logs.Close()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	stations := loadStations(cfg)

	start := flags.station
	if start == "" {
		start = cfg.LastStation
	}
	if start != "" {
		if i := stations.IndexOf(start); i >= 0 {
			stations.Select(i)
		} else if cmd.Flags().Changed("station") {
			stations = station.New(append([]station.Station{{Name: start, URL: start}}, stations.All()...))
		}
	}

	volume := cfg.Volume
	if flags.volume >= 0 {
		volume = flags.volume
	}
	style := cfg.Style
	if flags.style != "" {
		style = flags.style
	}
	fps := cfg.FPS
	if flags.fps > 0 {
		fps = flags.fps
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pref, prefsChanged := openTheme(ctx, cfg)

	sess := session.New(session.Options{
		Station:    stations.Current().URL,
		Volume:     volume,
		StyleIndex: styleIndex(style),
		StyleCount: visualizer.StyleCount,
		Dark:       pref.Dark(),
	})

	splitter := analysis.NewSplitter()
	p := player.New(sess.Station(), sess.Volume(), player.WithTap(splitter))
	defer p.Close()

	disp := dispatch.New(sess, splitter, frame.FPSInterval(fps))

	hub, err := popout.NewHub()
	if err != nil {
		return err
	}
	defer hub.Close()
	launcher, err := popout.NewProcessLauncher(hub, cfg.Terminal)
	if err != nil {
		return err
	}
	coord := popout.NewCoordinator(sess, p, launcher)

	log.Info().Str("station", sess.Station()).Str("hub", hub.URL()).Msg("starting")

	model := ui.New(ui.Options{
		Session:      sess,
		Player:       p,
		Dispatcher:   disp,
		Coordinator:  coord,
		Stations:     stations,
		Theme:        pref,
		Opener:       hub.Messages(),
		PrefsChanged: prefsChanged,
		Autoplay:     flags.play,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running player: %w", err)
	}

	cfg.Volume = sess.Volume()
	cfg.Style = visualizer.At(sess.StyleIndex()).Name()
	cfg.LastStation = stations.Current().URL
	if err := cfg.Save(); err != nil {
		log.Warn().Err(err).Msg("saving config")
	}
	return nil
}

func runPopout(cmd *cobra.Command, args []string) error {
	logs, err := setupLogging()
	if err != nil {
		return err
	}
	defer logs.Close()

	params, err := popout.ParseLaunchURL(flags.opener)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	stations := loadStations(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pref, prefsChanged := openTheme(ctx, cfg)
	pref.Apply(params.Dark)

	// A pop-out that cannot reach its opener exits without playing.
	client, err := popout.Dial(ctx, params.Opener)
	if err != nil {
		return err
	}
	defer client.Close()

	name := params.Station
	if i := stations.IndexOf(params.Station); i >= 0 {
		name = stations.All()[i].Name
	}

	sess := session.New(session.Options{
		Station:    params.Station,
		Volume:     cfg.Volume,
		StyleIndex: styleIndex(cfg.Style),
		StyleCount: visualizer.StyleCount,
		Dark:       params.Dark,
	})
	splitter := analysis.NewSplitter()
	p := player.New(sess.Station(), sess.Volume(), player.WithTap(splitter))
	defer p.Close()

	model := ui.NewPopout(ui.PopoutOptions{
		Session:      sess,
		Player:       p,
		Dispatcher:   dispatch.New(sess, splitter, frame.FPSInterval(cfg.FPS)),
		Theme:        pref,
		Opener:       client,
		PrefsChanged: prefsChanged,
		StationName:  name,
		Bell:         os.Stdout,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running pop-out: %w", err)
	}
	return nil
}
