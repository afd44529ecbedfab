package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sc2rep/screp2/mpq"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <replay>",
		Short: "list the member files of a replay's MPQ container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := mpq.OpenFile(args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			for _, name := range a.ListFiles() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
