package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chronos-tachyon/huf"
)

func newInspectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show the header of a compressed file",
		Long:  "Print the frequency map stored in a \".huf\" file, the tree rebuilt from it, and the resulting code table.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.inspect(cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) inspect(w io.Writer, path string) error {
	f, err := a.fs.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fm, err := huf.ReadHeader(huf.NewHeaderReader(f))
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", path, err)
	}
	root, err := huf.BuildTree(fm)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", path, err)
	}
	defer root.Release()

	table, err := huf.BuildCodeTable(root)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", path, err)
	}

	// Sum of count × code size: the payload length without padding.
	var bits uint64
	for _, sym := range fm.Keys() {
		bits += fm.Get(sym) * uint64(table[sym].Size)
	}

	a.logger.Debug().Str("input", path).Int("symbols", fm.Len()).Msg("inspected")

	fmt.Fprintf(w, "%s: %d symbols, %d bytes, %d payload bits\n", path, fm.Len(), fm.Total()-1, bits)
	if _, err := fm.Dump(w); err != nil {
		return err
	}
	if _, err := root.Dump(w); err != nil {
		return err
	}
	_, err = table.Dump(w)
	return err
}
