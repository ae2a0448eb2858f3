// Command suitetree discovers and runs the suites registered with it.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/suitetree/internal/cli"
	_ "github.com/roach88/suitetree/internal/examples"
)

func main() {
	if err := cli.NewRootCommand(nil).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
