package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-xtract/analysis"
	"github.com/RyanBlaney/sonido-xtract/config"
	"github.com/RyanBlaney/sonido-xtract/logging"
	"github.com/RyanBlaney/sonido-xtract/transcode"
)

type analyzeReport struct {
	Source     string           `json:"source" yaml:"source"`
	SampleRate int              `json:"sample_rate" yaml:"sample_rate"`
	Duration   float64          `json:"duration" yaml:"duration"`
	Frames     int              `json:"frames" yaml:"frames"`
	Notes      []analysis.Note  `json:"notes" yaml:"notes"`
	Onsets     []analysis.Onset `json:"onsets" yaml:"onsets"`
}

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file>",
		Short: "Track pitch and detect onsets",
		Long: `Decode a file and run the block pipeline over it, reporting every
change of the tracked MIDI note and every spectral flux onset.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			result, err := a.run(cmd, cfg, args[0])
			if err != nil {
				return err
			}

			report := analyzeReport{
				Source:     args[0],
				SampleRate: result.SampleRate,
				Duration:   result.Duration,
				Frames:     len(result.Frames),
				Notes:      result.Notes,
				Onsets:     result.Onsets,
			}
			out := cmd.OutOrStdout()
			if done, err := render(out, a.outputFormat, report); done {
				return err
			}

			fmt.Fprintf(out, "%s: %.3fs at %d Hz, %d frames\n", report.Source, report.Duration, report.SampleRate, report.Frames)
			fmt.Fprintf(out, "\nNotes (%d)\n", len(report.Notes))
			for _, n := range report.Notes {
				fmt.Fprintf(out, "  %9.3fs  note %3d  %8.2f Hz\n", n.Time, n.Note, n.Frequency)
			}
			fmt.Fprintf(out, "\nOnsets (%d)\n", len(report.Onsets))
			for _, o := range report.Onsets {
				fmt.Fprintf(out, "  %9.3fs  flux %.4g\n", o.Time, o.Strength)
			}
			return nil
		},
	}
}

// run decodes path at the configured rate and analyses it
func (a *app) run(cmd *cobra.Command, cfg *config.Config, path string) (*analysis.Result, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "cli",
		"command":   cmd.Name(),
		"file":      path,
	})

	analyzer, err := analysis.NewAnalyzer(cfg)
	if err != nil {
		return nil, err
	}

	decoder := transcode.NewDecoder(&transcode.DecoderConfig{
		SampleRate:  cfg.Analysis.SampleRate,
		MaxDuration: a.maxDuration,
		FFmpegPath:  a.ffmpegPath,
		FFprobePath: a.ffprobePath,
		Timeout:     10 * time.Minute,
	})

	start := time.Now()
	audio, err := decoder.DecodeFile(cmd.Context(), path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	logger.Info("Decoded audio", logging.Fields{
		"samples":     len(audio.Samples),
		"duration":    audio.Duration.Seconds(),
		"decode_time": time.Since(start).Seconds(),
	})

	start = time.Now()
	result, err := analyzer.Analyze(cmd.Context(), audio.Samples)
	if err != nil {
		return nil, err
	}
	logger.Info("Analysis completed", logging.Fields{
		"frames":        len(result.Frames),
		"analysis_time": time.Since(start).Seconds(),
	})
	return result, nil
}
