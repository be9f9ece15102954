package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCompressCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compress [files...]",
		Short: "Compress files",
		Long:  "Compress each file into a sibling file with the configured suffix (\".huf\" by default).",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec := a.codec()
			out := cmd.OutOrStdout()
			for _, path := range args {
				res, err := codec.Compress(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s -> %s: %d -> %d bytes (%d bits, %d symbols)\n",
					res.Input, res.Output, res.InputBytes, res.OutputBytes, res.Bits, res.Symbols)
				if a.cfg.Codec.Trace {
					fmt.Fprintln(out, res.Trace)
				}
			}
			return nil
		},
	}
}

func newDecompressCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decompress [files...]",
		Short: "Decompress files",
		Long:  "Decompress each \".huf\" file, writing e.g. notes.txt.huf to notes_unc.txt.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec := a.codec()
			out := cmd.OutOrStdout()
			for _, path := range args {
				res, err := codec.Decompress(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s -> %s: %d -> %d bytes\n",
					res.Input, res.Output, res.InputBytes, res.OutputBytes)
				if a.cfg.Codec.Trace {
					fmt.Fprintln(out, res.Trace)
				}
			}
			return nil
		},
	}
}
