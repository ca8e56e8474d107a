// Command animicons browses the animated icon catalog and manages the
// offline icon cache.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/animicons/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		// ExitErrors have already been reported by the command.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	os.Exit(cli.GetExitCode(err))
}
