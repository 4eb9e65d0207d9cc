// Package detector selects the rendering mode for build progress.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the rendering mode for build progress.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive TUI renderer.
	ModeTUI
	// ModeLinear forces the linear CI renderer.
	ModeLinear
)

// DetectEnvironment returns the recommended output mode. Progress renders on
// stderr since stdout belongs to the script, so the decision keys on stderr
// being a terminal; CI environments and dumb terminals get linear output.
func DetectEnvironment() OutputMode {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return ModeLinear
	}

	if ci := os.Getenv("CI"); ci == "true" || ci == "1" {
		return ModeLinear
	}
	if os.Getenv("TERM") == "dumb" {
		return ModeLinear
	}
	return ModeTUI
}

// ResolveMode applies the user override flag to auto-detection.
// flag should be one of: "auto", "tui", "linear", "ci", or empty.
func ResolveMode(autoDetected OutputMode, flag string) OutputMode {
	switch flag {
	case "tui":
		return ModeTUI
	case "linear", "ci":
		return ModeLinear
	default:
		return autoDetected
	}
}
