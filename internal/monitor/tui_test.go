package monitor

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"stackmon"
)

func testApp(t *testing.T) *App {
	t.Helper()
	rt := newFakeRuntime()
	rt.ids["api"] = "c-api"
	rt.snaps["c-api"] = stackmon.StateSnapshot{Status: "running", Health: "healthy"}

	m := New(
		[]stackmon.Target{{Service: "api"}, {Service: "db"}},
		rt,
		fakeDialer{},
		testCache(rt, true, nil),
		Config{Project: "lab"},
	)
	return NewApp(context.Background(), m, []string{"lab"}, time.Second)
}

func TestAppRowsMsgFillsTable(t *testing.T) {
	app := testApp(t)

	msg := app.refresh()
	rows, ok := msg.(rowsMsg)
	if !ok {
		t.Fatalf("refresh() returned %T, want rowsMsg", msg)
	}
	if len(rows) != 2 {
		t.Fatalf("refresh() produced %d rows, want 2", len(rows))
	}

	model, _ := app.Update(msg)
	updated := model.(*App)
	if got := len(updated.table.Rows()); got != 2 {
		t.Errorf("table has %d rows, want 2", got)
	}
	if updated.table.Rows()[1][2] != stackmon.StatusDown {
		t.Errorf("db state cell = %q, want %q", updated.table.Rows()[1][2], stackmon.StatusDown)
	}
}

func TestAppQuitKeys(t *testing.T) {
	keys := map[string]tea.KeyMsg{
		"q":      {Type: tea.KeyRunes, Runes: []rune("q")},
		"ctrl+c": {Type: tea.KeyCtrlC},
		"esc":    {Type: tea.KeyEsc},
	}
	for name, msg := range keys {
		app := testApp(t)
		_, cmd := app.Update(msg)
		if cmd == nil {
			t.Errorf("key %q produced no command, want quit", name)
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("key %q produced %T, want tea.QuitMsg", name, cmd())
		}
	}
}

func TestAppRefreshKey(t *testing.T) {
	app := testApp(t)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil {
		t.Fatal("r key produced no command")
	}
	if _, ok := cmd().(rowsMsg); !ok {
		t.Error("r key should trigger an immediate refresh")
	}
}
