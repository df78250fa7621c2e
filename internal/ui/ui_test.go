package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"stackmon"
)

func TestStateTone(t *testing.T) {
	tests := []struct {
		status string
		want   Tone
	}{
		{"running", ToneGood},
		{"restarting", ToneWarn},
		{"starting", ToneWarn},
		{"created", ToneWarn},
		{"exited", ToneBad},
		{"dead", ToneBad},
		{"paused", ToneBad},
		{stackmon.StatusDown, ToneBad},
		{stackmon.StatusUnknown, ToneBad},
	}
	for _, tt := range tests {
		if got := StateTone(tt.status); got != tt.want {
			t.Errorf("StateTone(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestHealthTone(t *testing.T) {
	tests := []struct {
		health string
		want   Tone
	}{
		{"healthy", ToneGood},
		{stackmon.HealthNone, ToneGood},
		{"starting", ToneWarn},
		{"unhealthy", ToneBad},
		{stackmon.HealthDown, ToneBad},
	}
	for _, tt := range tests {
		if got := HealthTone(tt.health); got != tt.want {
			t.Errorf("HealthTone(%q) = %v, want %v", tt.health, got, tt.want)
		}
	}
}

func TestLogTone(t *testing.T) {
	tests := []struct {
		sig  stackmon.LogSignal
		want Tone
	}{
		{stackmon.LogSignal{Kind: stackmon.LogCounted, Count: 0}, ToneGood},
		{stackmon.LogSignal{Kind: stackmon.LogCounted, Count: 1}, ToneWarn},
		{stackmon.LogSignal{Kind: stackmon.LogCounted, Count: 2}, ToneWarn},
		{stackmon.LogSignal{Kind: stackmon.LogCounted, Count: 3}, ToneBad},
		{stackmon.LogSignal{Kind: stackmon.LogCounted, Count: 10}, ToneBad},
		{stackmon.LogSignal{Kind: stackmon.LogUnavailable}, ToneWarn},
		{stackmon.LogSignal{Kind: stackmon.LogDisabled}, ToneNone},
	}
	for _, tt := range tests {
		if got := LogTone(tt.sig); got != tt.want {
			t.Errorf("LogTone(%+v) = %v, want %v", tt.sig, got, tt.want)
		}
	}
}

func TestPortsTone(t *testing.T) {
	tests := []struct {
		verdict stackmon.ReachVerdict
		want    Tone
	}{
		{stackmon.ClassifyReach(2, 2), ToneGood},
		{stackmon.ClassifyReach(1, 3), ToneWarn},
		{stackmon.ClassifyReach(0, 2), ToneBad},
		{stackmon.ClassifyReach(0, 0), ToneNone},
	}
	for _, tt := range tests {
		if got := PortsTone(tt.verdict); got != tt.want {
			t.Errorf("PortsTone(%+v) = %v, want %v", tt.verdict, got, tt.want)
		}
	}
}

func TestPaintAsciiProfileIsIdentity(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	for _, tone := range []Tone{ToneNone, ToneGood, ToneWarn, ToneBad} {
		if got := Paint(tone, "text"); got != "text" {
			t.Errorf("Paint(%v) = %q under Ascii profile, want unchanged", tone, got)
		}
	}
}

func TestPaintColorProfileStyles(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI256)
	defer lipgloss.SetColorProfile(termenv.Ascii)

	if got := Paint(ToneGood, "ok"); got == "ok" {
		t.Error("Paint(ToneGood) unchanged under ANSI256 profile, want styled")
	}
	if got := Paint(ToneNone, "plain"); got != "plain" {
		t.Errorf("Paint(ToneNone) = %q, want unchanged", got)
	}
	// A down target's health cell is red, not unstyled.
	if got := Paint(HealthTone(stackmon.HealthDown), stackmon.HealthDown); got == stackmon.HealthDown {
		t.Error("down health cell unchanged under ANSI256 profile, want red")
	}
}
