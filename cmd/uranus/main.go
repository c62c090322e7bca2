// Package main is the entry point for Uranus. The serve command runs the
// describe API, the dashboard command runs the telemetry TUI.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
