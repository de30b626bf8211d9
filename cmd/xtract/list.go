package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-xtract/xtract"
)

type listEntry struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Kind        string `json:"kind" yaml:"kind"`
	Argc        int    `json:"argc" yaml:"argc"`
	ArgType     string `json:"arg_type" yaml:"arg_type"`
	Description string `json:"description" yaml:"description"`
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every feature with its kind and arguments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, a)
		},
	}
}

func runList(cmd *cobra.Command, a *app) error {
	var entries []listEntry
	for _, f := range xtract.Features() {
		d, _ := xtract.Describe(f)
		entries = append(entries, listEntry{
			ID:          int(f),
			Name:        d.Name,
			Kind:        d.Kind.String(),
			Argc:        d.Argc,
			ArgType:     d.ArgType.String(),
			Description: d.Description,
		})
	}

	out := cmd.OutOrStdout()
	if done, err := render(out, a.outputFormat, entries); done {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tKIND\tARGS\tDESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d %s\t%s\n", e.ID, e.Name, e.Kind, e.Argc, e.ArgType, e.Description)
	}
	return w.Flush()
}
