// Package main provides the mulsim command line: it runs verification
// scenarios against the pipelined multiplier, exports register traces and
// prints the structural description handed to the physical backend.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
