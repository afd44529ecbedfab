package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/sc2rep/screp2/repparser"
)

func newParseCmd() *cobra.Command {
	var (
		events bool
		indent bool
	)

	cmd := &cobra.Command{
		Use:   "parse <replay>",
		Short: "decode a replay and dump it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := repparser.Config{Computed: events}
			if events {
				cfg.GameEvents, cfg.MessageEvents, cfg.TrackerEvents = true, true, true
			}

			r, err := repparser.ParseFileConfig(args[0], cfg)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if indent {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(r)
		},
	}

	cmd.Flags().BoolVar(&events, "events", false, "also decode and dump game/message/tracker events and computed data")
	cmd.Flags().BoolVar(&indent, "indent", true, "indent the JSON output")
	return cmd
}
