package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/olivier-w/vuradio/internal/config"
)

// Version is set at build time.
var Version = "dev"

var flags struct {
	station   string
	volume    float64
	style     string
	fps       int
	logFile   string
	debug     bool
	configDir string
	opener    string
	play      bool
}

var rootCmd = &cobra.Command{
	Use:   "vuradio",
	Short: "Internet radio with a stereo VU meter",
	Long: `vuradio streams internet radio in the terminal and draws a live stereo
VU meter from the audio as it plays.

Six meter styles (classic, led, circular, waveform, spectrum, retro) can be
cycled while listening, and playback can be handed to a compact pop-out
player in its own terminal window.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPlayer,
}

var popoutCmd = &cobra.Command{
	Use:    "popout",
	Short:  "Run the compact pop-out player",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runPopout,
}

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "List the configured stations",
	Args:  cobra.NoArgs,
	RunE:  runStations,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.logFile, "log", "l", "",
		"Write logs to the specified file (empty disables)")
	pf.BoolVar(&flags.debug, "debug", false,
		"Log at debug level")
	pf.StringVar(&flags.configDir, "config-dir", "",
		"Configuration directory (default $"+config.DirEnv+" or ~/.config/vuradio)")

	f := rootCmd.Flags()
	f.StringVarP(&flags.station, "station", "s", "",
		"Station name or stream URL to start with")
	f.Float64VarP(&flags.volume, "volume", "v", -1,
		"Initial volume between 0 and 1")
	f.StringVar(&flags.style, "style", "",
		"Meter style: classic, led, circular, waveform, spectrum or retro")
	f.IntVar(&flags.fps, "fps", 0,
		"Meter frame rate")
	f.BoolVarP(&flags.play, "play", "p", false,
		"Start playing immediately")

	popoutCmd.Flags().StringVar(&flags.opener, "opener", "",
		"Opener websocket URL with session, station and theme")
	_ = popoutCmd.MarkFlagRequired("opener")

	rootCmd.AddCommand(popoutCmd, stationsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging points the global zerolog logger at the --log file. The TUI
// owns the terminal, so without a file logging is disabled.
func setupLogging() (io.Closer, error) {
	if flags.logFile == "" {
		zerolog.SetGlobalLevel(zerolog.Disabled)
		return io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(flags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	level := zerolog.InfoLevel
	if flags.debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(f).With().Timestamp().Int("pid", os.Getpid()).Logger()
	log.Debug().Str("version", Version).Msg("logging enabled")
	return f, nil
}

func runStations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	list := loadStations(cfg)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for i, s := range list.All() {
		fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, s.Name, s.URL)
	}
	return w.Flush()
}
