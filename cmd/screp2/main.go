// Command screp2 is a CLI driver over the screp2 library: a thin adapter
// that is not part of the core decode pipeline.
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
