package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sc2rep/screp2/mpq"
)

func newExtractCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "extract <replay> <member>",
		Short: "write the decompressed bytes of one member file to stdout or --out",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := mpq.OpenFile(args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			data, err := a.FileByName(args[1])
			if err != nil {
				return err
			}

			out := io.Writer(cmd.OutOrStdout())
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "output file path (default: stdout)")
	return cmd
}
