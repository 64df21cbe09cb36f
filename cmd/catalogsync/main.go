package main

import (
	"fmt"
	"os"

	"github.com/roach88/catalogsync/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands report through their formatter; only errors raised before
		// a command ran (bad flags, environment) still need printing.
		if !cli.Reported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
