// Command handoff moves a generated list of items from a producer to a
// consumer through a bounded channel and verifies the copy.
package main

import (
	"fmt"
	"os"

	"github.com/kbukum/handoff/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(errors.ExitCode(err))
	}
}
