// Command metanav runs the keyword extractor, the sub-task planner and the
// flow decisions from the terminal, without a database.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
