package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/sonido-xtract/config"
	"github.com/RyanBlaney/sonido-xtract/logging"
)

// app carries the state shared by every command of one invocation
type app struct {
	v            *viper.Viper
	configFile   string
	verbose      bool
	outputFormat string
	ffmpegPath   string
	ffprobePath  string
	maxDuration  time.Duration
}

// flagKeys maps persistent flags onto configuration keys
var flagKeys = map[string]string{
	"log-level":   "log_level",
	"backend":     "backend",
	"sample-rate": "analysis.sample_rate",
	"block-size":  "analysis.block_size",
	"hop-size":    "analysis.hop_size",
	"window":      "analysis.window",
	"remove-dc":   "analysis.remove_dc",
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	rootCmd := &cobra.Command{
		Use:   "xtract",
		Short: "Audio feature extraction",
		Long: `xtract computes low level audio features frame by frame.

It decodes any input ffmpeg understands, splits it into overlapping blocks
and evaluates time domain, spectral, harmonic and cepstral features, tracks
pitch as MIDI notes and reports spectral flux onsets.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (YAML)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	flags.StringP("log-level", "", "info", "log level (debug, info, warn, error)")
	flags.StringVarP(&a.outputFormat, "output", "o", "text", "output format (text, yaml, json)")
	flags.String("backend", "gonum", "FFT backend (gonum, go-dsp)")
	flags.Int("sample-rate", 44100, "analysis sample rate in Hz")
	flags.Int("block-size", 512, "block size in samples, a power of two")
	flags.Int("hop-size", 256, "hop between blocks in samples")
	flags.String("window", "hann", "window applied before the spectrum")
	flags.Bool("remove-dc", false, "remove DC offset before analysis")
	flags.StringVar(&a.ffmpegPath, "ffmpeg", "ffmpeg", "path to the ffmpeg binary")
	flags.StringVar(&a.ffprobePath, "ffprobe", "ffprobe", "path to the ffprobe binary")
	flags.DurationVar(&a.maxDuration, "max-duration", 0, "decode at most this much audio (0 for all)")

	rootCmd.AddCommand(
		newListCmd(a),
		newAnalyzeCmd(a),
		newFeaturesCmd(a),
	)
	return rootCmd
}

// initialize reads the config file and binds the flags that were set on the
// command line over it
func (a *app) initialize(cmd *cobra.Command) error {
	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
		a.v.SetConfigType("yaml")
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", a.configFile, err)
		}
	}

	if err := bindFlags(cmd, a.v); err != nil {
		return err
	}

	level, err := logging.ParseLevel(a.v.GetString("log_level"))
	if err != nil {
		return err
	}
	if a.verbose {
		level = logging.DebugLevel
	}
	logging.SetLevel(level)

	if a.verbose && a.configFile != "" {
		logging.Debug("Using config file", logging.Fields{"path": a.v.ConfigFileUsed()})
	}

	switch strings.ToLower(a.outputFormat) {
	case "text", "yaml", "json":
	default:
		return fmt.Errorf("unknown output format %q", a.outputFormat)
	}
	return nil
}

// config decodes and validates the merged configuration
func (a *app) config() (*config.Config, error) {
	return config.FromViper(a.v)
}

// bindFlags binds each mapped flag to its configuration key. Flags left at
// their default do not override the file or the environment.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || !f.Changed {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			lastErr = err
		}
	})
	return lastErr
}
