package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stackmon"
	"stackmon/config"
	"stackmon/internal/ui"
)

// Fixed column widths; the service column alone grows to fit content.
const (
	colContainer = 13
	colState     = 14
	colHealth    = 12
	colErrors    = 12
	colPorts     = 16

	svcColMin = 12
	svcColMax = 28
)

// Presenter turns rows into one plain-text frame. Cells are padded on
// their visible width, so color escapes never shift column boundaries.
type Presenter struct {
	Header []string // static lines printed above the table
	Width  int      // separator width; 0 fits the column header row
}

// HeaderLines builds the static frame header from the resolved scope.
func HeaderLines(s config.Settings, probePorts bool) []string {
	label := func(items []string) string {
		if len(items) == 0 {
			return "(none)"
		}
		return strings.Join(items, ",")
	}
	onOff := func(v bool) string {
		if v {
			return "on"
		}
		return "off"
	}
	project := s.Project
	if project == "" {
		project = "-"
	}
	return []string{
		ui.BoldStyle.Render(fmt.Sprintf("%s (%s) v%s", s.StackName, s.StackSlug, s.StackVersion)),
		fmt.Sprintf("project: %s | compose: %s", project, s.ComposeFile),
		fmt.Sprintf("profiles: %s | services: %s", label(s.Profiles), label(s.Services)),
		fmt.Sprintf("refresh: %s | metadata: %s | port probing: %s | log errors: %s",
			s.Refresh, s.MetadataPath, onOff(probePorts), onOff(s.LogErrors)),
	}
}

// Frame renders the header, column titles, a separator and one line per
// row.
func (p *Presenter) Frame(rows []stackmon.Row) string {
	svcW := serviceWidth(rows)

	var b strings.Builder
	for _, line := range p.Header {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	head := pad("Container", colContainer) +
		pad("Service", svcW) +
		pad("State", colState) +
		pad("Health", colHealth) +
		pad("Errors", colErrors) +
		pad("Ports", colPorts)
	b.WriteString(ui.BoldStyle.Render(head))
	b.WriteByte('\n')

	sepW := p.Width
	if sepW <= 0 {
		sepW = lipgloss.Width(head)
	}
	b.WriteString(strings.Repeat("-", sepW))
	b.WriteByte('\n')

	for _, row := range rows {
		b.WriteString(pad(row.ShortID(), colContainer))
		b.WriteString(pad(row.Service, svcW))
		b.WriteString(pad(ui.Paint(ui.StateTone(row.State.Status), row.State.Status), colState))
		b.WriteString(pad(ui.Paint(ui.HealthTone(row.State.Health), row.State.Health), colHealth))
		b.WriteString(pad(ui.Paint(ui.LogTone(row.Logs), row.Logs.String()), colErrors))
		b.WriteString(pad(ui.Paint(ui.PortsTone(row.Ports), row.Ports.String()), colPorts))
		b.WriteByte('\n')
	}
	return b.String()
}

func serviceWidth(rows []stackmon.Row) int {
	longest := 0
	for _, row := range rows {
		if n := lipgloss.Width(row.Service); n > longest {
			longest = n
		}
	}
	return max(svcColMin, min(svcColMax, longest+2))
}

// pad right-pads s to visible width w. lipgloss measures rendered width,
// so styled cells line up with unstyled ones.
func pad(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
