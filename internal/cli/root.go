// Package cli implements the huf command line.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/chronos-tachyon/huf/internal/archive"
	"github.com/chronos-tachyon/huf/internal/config"
	"github.com/chronos-tachyon/huf/internal/logging"
)

// app is the state shared by every command of one root command.
type app struct {
	fs         afero.Fs
	v          *viper.Viper
	configPath string

	cfg    *config.Config
	logger zerolog.Logger
}

// NewRootCommand returns the "huf" command with all subcommands attached.
// Files are read from and written to fs.
func NewRootCommand(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs, v: config.New(), logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "huf",
		Short: "Huffman file compressor",
		Long:  "huf compresses single files with a static Huffman code and restores them byte for byte.",

		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to a YAML, TOML or JSON config file")
	flags.String("log-level", "info", "Log level: debug|info|warn|error")
	flags.String("log-format", "console", "Log format: console|json")
	flags.BoolP("overwrite", "f", false, "Replace output files that already exist")
	flags.BoolP("trace", "t", false, "Print the encoded bits or decoded text")
	a.bind("log.level", flags.Lookup("log-level"))
	a.bind("log.format", flags.Lookup("log-format"))
	a.bind("codec.overwrite", flags.Lookup("overwrite"))
	a.bind("codec.trace", flags.Lookup("trace"))

	rootCmd.AddCommand(newCompressCommand(a))
	rootCmd.AddCommand(newDecompressCommand(a))
	rootCmd.AddCommand(newInspectCommand(a))
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

func (a *app) bind(key string, flag *pflag.Flag) {
	if err := a.v.BindPFlag(key, flag); err != nil {
		panic(fmt.Errorf("binding flag for %q: %w", key, err))
	}
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.logger.Debug().
		Str("suffix", cfg.Codec.Suffix).
		Str("marker", cfg.Codec.Marker).
		Bool("overwrite", cfg.Codec.Overwrite).
		Msg("configuration loaded")
	return nil
}

func (a *app) codec() *archive.Codec {
	return archive.New(a.fs, a.logger, archive.Options{
		Suffix:    a.cfg.Codec.Suffix,
		Marker:    a.cfg.Codec.Marker,
		Overwrite: a.cfg.Codec.Overwrite,
		Trace:     a.cfg.Codec.Trace,
	})
}
