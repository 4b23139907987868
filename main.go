// Package main provides the entry point for topdown.
// topdown computes Top-Down ratios and cache/branch predictor statistics
// from the counters a simulator prints to its log.
//
// For the full CLI, use: go run ./cmd/topdown
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("topdown - Top-Down analysis for simulator counter logs")
	fmt.Println("")
	fmt.Println("Usage: NPC_HOME=<project> topdown")
	fmt.Println("")
	fmt.Println("Environment:")
	fmt.Println("  NPC_HOME            Project directory (required); reads build/stderr.log")
	fmt.Println("  TOPDOWN_VARIANT     minimal or extended (default extended)")
	fmt.Println("  TOPDOWN_BADSPEC     v1 (with RecoveryBubbles) or v2 (default v2)")
	fmt.Println("  TOPDOWN_ZERO_GUARD  Metrics that report 0 on a zero denominator")
	fmt.Println("  TOPDOWN_DEBUG       Enable debug logging")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/topdown' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/topdown' instead.")
	}
}
