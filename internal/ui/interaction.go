package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	envNoColor = "NO_COLOR"
	envCI      = "CI"
	envTerm    = "TERM"
)

// IsInteractive reports whether stdout is an interactive terminal. CI
// environments and dumb terminals count as non-interactive even when
// stdout is a tty.
func IsInteractive() bool {
	if envTruthy(envCI) {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(envTerm)), "dumb") {
		return false
	}
	return stdoutIsTerminal()
}

// ConfigureColor fixes the lipgloss color profile for the rest of the
// process. Non-interactive output gets the Ascii profile, which turns
// every style into the identity — column widths cannot depend on it.
func ConfigureColor(interactive bool) {
	if interactive && os.Getenv(envNoColor) == "" {
		lipgloss.SetColorProfile(termenv.ColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

func stdoutIsTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func envTruthy(key string) bool {
	switch strings.TrimSpace(strings.ToLower(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
