package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-xtract/analysis"
	"github.com/RyanBlaney/sonido-xtract/xtract"
)

func newFeaturesCmd(a *app) *cobra.Command {
	var features []string

	cmd := &cobra.Command{
		Use:   "features <file>",
		Short: "Print per-frame features",
		Long: `Decode a file and print the requested features for every block.

Features are named as listed by "xtract list". Without --feature the list
from the configuration is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if len(features) > 0 {
				cfg.Features = features
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			for i, name := range cfg.Features {
				f, _ := xtract.ParseFeature(name)
				cfg.Features[i] = f.String()
			}

			result, err := a.run(cmd, cfg, args[0])
			if err != nil {
				return err
			}
			return printFrames(cmd, a.outputFormat, cfg.Features, result.Frames)
		},
	}

	cmd.Flags().StringSliceVarP(&features, "feature", "f", nil, "feature to extract (repeatable)")
	return cmd
}

func printFrames(cmd *cobra.Command, format string, names []string, frames []analysis.Frame) error {
	out := cmd.OutOrStdout()
	if done, err := render(out, format, frames); done {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TIME\t%s\n", strings.ToUpper(strings.Join(names, "\t")))
	for _, fr := range frames {
		cells := make([]string, len(names))
		for i, name := range names {
			cells[i] = formatValues(fr.Features[name])
		}
		fmt.Fprintf(w, "%.3f\t%s\n", fr.Time, strings.Join(cells, "\t"))
	}
	return w.Flush()
}
