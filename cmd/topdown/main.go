// Package main provides the topdown command, which turns the counters in a
// simulator log into a Top-Down analysis report.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
