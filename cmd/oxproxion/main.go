// Command oxproxion is the CLI front end for the federation and routing
// engine: inspect sync and routing statistics, submit problems, replay
// knowledge snapshots and register sync batches.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
