// Command pedalctl validates setlists, runs mutation scenarios and
// inspects the announcement journal.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/pedalboard/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
