// Package ui renders CLI-facing output: TTY/color detection, doctor/status tables, and an
// optional interactive dashboard.
package ui

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether stdout is connected to a TTY.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ShouldUseColor respects NO_COLOR (https://no-color.org/), CLICOLOR, and CLICOLOR_FORCE.
func ShouldUseColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	if _, exists := os.LookupEnv("CLICOLOR_FORCE"); exists {
		return true
	}
	return IsTerminal()
}

// IsAgentMode reports whether the CLI is running under a host agent runtime, which prefers
// compact, unstyled output over a colored table.
func IsAgentMode() bool {
	if os.Getenv("CAPSULE_AGENT_MODE") == "1" {
		return true
	}
	if os.Getenv("CLAUDE_CODE") != "" {
		return true
	}
	return false
}
