// Package detector picks the retry prompt style for the current terminal.
package detector

import (
	"os"

	"golang.org/x/term"
)

// PromptMode selects how compile failures are presented.
type PromptMode int

const (
	// ModeAuto detects the mode from the environment.
	ModeAuto PromptMode = iota
	// ModeTUI shows the interactive dialog.
	ModeTUI
	// ModeLinear asks on a plain line prompt.
	ModeLinear
	// ModeNone never asks and aborts on the first failure.
	ModeNone
)

// String returns the flag spelling of the mode.
func (m PromptMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeLinear:
		return "linear"
	case ModeNone:
		return "none"
	default:
		return "auto"
	}
}

// DetectEnvironment returns the recommended mode for the process terminal.
func DetectEnvironment() PromptMode {
	return Detect(
		term.IsTerminal(int(os.Stdin.Fd())),
		term.IsTerminal(int(os.Stdout.Fd())),
		os.Getenv,
	)
}

// Detect chooses a mode from terminal capabilities and environment variables.
// CI runs never prompt. A terminal on both ends gets the dialog; anything else
// gets the line prompt.
func Detect(stdinTTY, stdoutTTY bool, getenv func(string) string) PromptMode {
	if ci := getenv("CI"); ci == "true" || ci == "1" {
		return ModeNone
	}
	if stdinTTY && stdoutTTY {
		return ModeTUI
	}
	return ModeLinear
}

// ResolveMode applies the user's --prompt flag to the detected mode.
// userFlag should be one of "auto", "tui", "linear", "none", or empty.
func ResolveMode(autoDetected PromptMode, userFlag string) PromptMode {
	switch userFlag {
	case "tui":
		return ModeTUI
	case "linear":
		return ModeLinear
	case "none", "ci":
		return ModeNone
	default:
		return autoDetected
	}
}
