package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stackmon"
	"stackmon/internal/ui"
)

type tickMsg time.Time

type rowsMsg []stackmon.Row

// App is the full-screen monitor UI: a navigable table refreshed on a
// timer, with r to refresh immediately and q to quit.
type App struct {
	ctx      context.Context
	monitor  *Monitor
	header   string
	interval time.Duration
	clock    func() time.Time
	table    table.Model
}

// NewApp builds the full-screen UI around an assembled monitor.
func NewApp(ctx context.Context, m *Monitor, header []string, interval time.Duration) *App {
	svcW := svcColMin
	for _, t := range m.Targets() {
		if n := lipgloss.Width(t.Service) + 2; n > svcW {
			svcW = n
		}
	}
	svcW = min(svcW, svcColMax)

	columns := []table.Column{
		{Title: "Container", Width: colContainer},
		{Title: "Service", Width: svcW},
		{Title: "State", Width: colState},
		{Title: "Health", Width: colHealth},
		{Title: "Uptime", Width: 10},
		{Title: "Errors", Width: colErrors},
		{Title: "Ports", Width: colPorts},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(len(m.Targets()), 1)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("99")).
		Bold(false)
	t.SetStyles(s)

	return &App{
		ctx:      ctx,
		monitor:  m,
		header:   strings.Join(header, "\n"),
		interval: interval,
		clock:    time.Now,
		table:    t,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.refresh, a.tick())
}

func (a *App) refresh() tea.Msg {
	return rowsMsg(a.monitor.Cycle(a.ctx))
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rowsMsg:
		now := a.clock()
		rows := make([]table.Row, len(msg))
		for i, r := range msg {
			rows[i] = table.Row{
				r.ShortID(),
				r.Service,
				r.State.Status,
				r.State.Health,
				r.State.Uptime(now),
				r.Logs.String(),
				r.Ports.String(),
			}
		}
		a.table.SetRows(rows)
		return a, nil
	case tickMsg:
		return a, tea.Batch(a.refresh, a.tick())
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return a, tea.Quit
		case "r":
			return a, a.refresh
		}
	}

	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	return a.header + "\n\n" + a.table.View() + "\n" +
		ui.MutedStyle.Render("q quit  r refresh now") + "\n"
}

// RunApp runs the full-screen UI until the user quits or ctx is
// cancelled. Interruption is a clean exit, not an error.
func RunApp(ctx context.Context, app *App) error {
	p := tea.NewProgram(app, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run monitor ui: %w", err)
	}
	return nil
}
