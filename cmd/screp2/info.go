package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sc2rep/screp2/repparser"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <replay>",
		Short: "print a human-readable summary of a replay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repparser.ParseFileConfig(args[0], repparser.Config{})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Version:  %s (build %d, base build %d)\n", r.Header.Version, r.Header.Build, r.Header.BaseBuild)
			fmt.Fprintf(out, "Map:      %s\n", r.Details.Title)
			fmt.Fprintf(out, "Matchup:  %s\n", r.Details.Matchup())
			fmt.Fprintf(out, "Players:  %s\n", r.Details.PlayerNames())
			fmt.Fprintf(out, "Duration: %s\n", r.Header.Duration())
			fmt.Fprintf(out, "Saved:    %s\n", r.Details.TimeUTC)
			return nil
		},
	}
}
