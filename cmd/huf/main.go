package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/chronos-tachyon/huf/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(afero.NewOsFs()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "huf: %v\n", err)
		os.Exit(1)
	}
}
