package main

import (
	"fmt"
	"os"

	"github.com/marketlens/logocache/internal/cli"
	"github.com/marketlens/logocache/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps errors to an exit code. Split out
// of main so tests can exercise it.
func run() int {
	cmd := cli.NewRootCmd(version.GetVersion())
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
