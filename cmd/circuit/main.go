// Command circuit is a CLI tool for working with circuit diagram configs.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		bad.Fprintf(os.Stderr, "circuit: %v\n", err)
		os.Exit(1)
	}
}
