// Package ui holds the monitor's terminal palette, cell colorization and
// interactivity detection. Color is decided once at startup through the
// lipgloss color profile, so a cycle's rendering is deterministic.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"stackmon"
)

// Muted palette, readable on dark terminals.
var (
	green  = lipgloss.Color("76")
	yellow = lipgloss.Color("214")
	red    = lipgloss.Color("204")
	dim    = lipgloss.Color("243")
)

var (
	GoodStyle  = lipgloss.NewStyle().Foreground(green)
	WarnStyle  = lipgloss.NewStyle().Foreground(yellow)
	BadStyle   = lipgloss.NewStyle().Foreground(red)
	MutedStyle = lipgloss.NewStyle().Foreground(dim)
	BoldStyle  = lipgloss.NewStyle().Bold(true)
)

// Tone classifies a cell for colorization.
type Tone uint8

const (
	ToneNone Tone = iota
	ToneGood
	ToneWarn
	ToneBad
)

// Paint styles s according to tone. With the Ascii color profile active
// (non-interactive output) this returns s unchanged.
func Paint(tone Tone, s string) string {
	switch tone {
	case ToneGood:
		return GoodStyle.Render(s)
	case ToneWarn:
		return WarnStyle.Render(s)
	case ToneBad:
		return BadStyle.Render(s)
	default:
		return s
	}
}

// StateTone maps a container lifecycle status to a tone.
func StateTone(status string) Tone {
	switch status {
	case "running":
		return ToneGood
	case "restarting", "starting", "created":
		return ToneWarn
	default:
		return ToneBad
	}
}

// HealthTone maps a health verdict to a tone. A container without a
// health check ("n/a") reads as good; a down target's "-" reads as bad
// like any other non-healthy value.
func HealthTone(health string) Tone {
	switch health {
	case "healthy", stackmon.HealthNone:
		return ToneGood
	case "starting":
		return ToneWarn
	default:
		return ToneBad
	}
}

// LogTone maps a log-error judgment to a tone: quiet logs are good, a few
// errors warn, three or more alarm.
func LogTone(sig stackmon.LogSignal) Tone {
	switch sig.Kind {
	case stackmon.LogDisabled:
		return ToneNone
	case stackmon.LogUnavailable:
		return ToneWarn
	}
	switch {
	case sig.Count == 0:
		return ToneGood
	case sig.Count < 3:
		return ToneWarn
	default:
		return ToneBad
	}
}

// PortsTone maps a reachability verdict to a tone.
func PortsTone(v stackmon.ReachVerdict) Tone {
	switch v.Kind {
	case stackmon.ReachFull:
		return ToneGood
	case stackmon.ReachPartial:
		return ToneWarn
	case stackmon.ReachNone:
		return ToneBad
	default:
		return ToneNone
	}
}
