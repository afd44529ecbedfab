package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sc2rep/screp2/log"
)

const appVersion = "v1.0.0"

var verbose bool

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "screp2",
		Short:         "screp2 reads StarCraft II replay files",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(*cobra.Command, []string) {
			lvl := zerolog.InfoLevel
			if verbose {
				lvl = zerolog.DebugLevel
			}
			zlog := zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
			log.SetLogger(log.NewZerologAdapter(zlog))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newListCmd(), newExtractCmd(), newInfoCmd(), newParseCmd())
	return cmd
}
