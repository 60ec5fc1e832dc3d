package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"

	"github.com/Jean-Jawed/Patternia/internal/config"
	"github.com/Jean-Jawed/Patternia/internal/core"
	"github.com/Jean-Jawed/Patternia/internal/levels"
	"github.com/Jean-Jawed/Patternia/internal/storage"
)

func sendApp(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, _ := m.Update(msg)
	am, ok := next.(AppModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return am
}

func TestAppFlow(t *testing.T) {
	store := openStore(t)
	m := NewAppModel(Options{
		Config: config.DefaultGameConfig(),
		Loader: levels.NewFSLoader(levelFS),
		Store:  store,
	}, testRT)

	if m.screen != screenMenu || len(m.menu.items) != 2 {
		t.Fatalf("want menu with 2 levels, got screen %d with %d items", m.screen, len(m.menu.items))
	}

	m = sendApp(t, m, runes("j"))
	m = sendApp(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenGame || m.game == nil {
		t.Fatal("enter should start the level")
	}
	if got := m.game.Game().Session().Level().ID; got != 2 {
		t.Errorf("started level %d, want 2", got)
	}

	m = sendApp(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu || m.quitting {
		t.Fatal("esc should return to the menu")
	}
	if m.menu.cursor != 1 {
		t.Errorf("menu cursor = %d, want the last played level", m.menu.cursor)
	}

	m = sendApp(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenHistory {
		t.Fatal("tab should open the history board")
	}
	if !strings.Contains(m.View(), "RUN HISTORY - 2 Open") {
		t.Errorf("history view missing title:\n%s", m.View())
	}

	m = sendApp(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Fatal("esc should close the history board")
	}

	m = sendApp(t, m, runes("q"))
	if !m.quitting || m.View() != "" {
		t.Error("q should quit")
	}
}

func TestMenuItemsCarryHistory(t *testing.T) {
	store := openStore(t)
	if _, err := store.RecordClear(1, 2, 5, 300); err != nil {
		t.Fatal(err)
	}

	items, err := MenuItems(levels.NewFSLoader(levelFS), store, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if !strings.Contains(items[0].Label(), "best 2 deaths") {
		t.Errorf("label = %q, want best deaths", items[0].Label())
	}
	if items[1].Stats != nil || strings.Contains(items[1].Label(), "best") {
		t.Errorf("uncleared level shows history: %q", items[1].Label())
	}
}

func TestMenuNavigation(t *testing.T) {
	items := []MenuItem{{LevelID: 1, Title: "A"}, {LevelID: 2, Title: "B"}}
	m := NewMenuModel(items, testRT)

	step := func(msg tea.KeyMsg) {
		next, _ := m.Update(msg)
		m = next.(MenuModel)
	}

	step(tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor moved above the first item")
	}
	step(tea.KeyMsg{Type: tea.KeyDown})
	step(tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
	step(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected() == nil || m.Selected().LevelID != 2 {
		t.Errorf("selected = %+v, want level 2", m.Selected())
	}
}

func TestHistoryBoard(t *testing.T) {
	store := openStore(t)
	if _, err := store.RecordClear(1, 1, 3, 120); err != nil {
		t.Fatal(err)
	}
	items, err := MenuItems(levels.NewFSLoader(levelFS), store, nil)
	if err != nil {
		t.Fatal(err)
	}

	m := NewHistoryModel(items, store, 60, 1, 100, 30)
	step := func(msg tea.KeyMsg) {
		next, _ := m.Update(msg)
		m = next.(HistoryModel)
	}

	if view := m.View(); !strings.Contains(view, "cleared 1 times, best 1 deaths in 3 steps") {
		t.Errorf("level 1 summary missing:\n%s", view)
	}

	step(tea.KeyMsg{Type: tea.KeyTab})
	if m.sel != 1 || len(m.clears) != 0 {
		t.Fatalf("tab: sel = %d with %d clears, want level 2 without clears", m.sel, len(m.clears))
	}
	if view := m.View(); !strings.Contains(view, "No clears recorded yet.") {
		t.Errorf("empty level view:\n%s", view)
	}

	step(tea.KeyMsg{Type: tea.KeyTab})
	if m.sel != 0 {
		t.Errorf("tab should wrap to the first level, sel = %d", m.sel)
	}

	step(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() || m.IsQuitting() || m.View() != "" {
		t.Error("esc should close the board without quitting")
	}
}

func TestClearRows(t *testing.T) {
	clears := []storage.ClearEntry{
		{LevelID: 1, Deaths: 0, Steps: 4, Ticks: 90},
		{LevelID: 1, Deaths: 3, Steps: 9, Ticks: 600},
	}
	got := ClearRows(clears, 60)
	want := []table.Row{
		{"#1", "0", "4", "1.5s", clears[0].CreatedAt.Format("Jan 02 15:04")},
		{"#2", "3", "9", "10.0s", clears[1].CreatedAt.Format("Jan 02 15:04")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ClearRows mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab")
	s.SetCell(2, 0, core.FgBg('x', core.RGB{R: 255}, core.RGB{B: 255}))
	s.DrawTextColor(0, 1, "cd", core.RGB{G: 255})

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 6 {
			t.Errorf("line %d width = %d, want 6", i, w)
		}
	}

	plain := core.NewScreen(3, 1)
	plain.DrawText(0, 0, "abc")
	if got := RenderScreen(plain); got != "abc" {
		t.Errorf("uncolored screen = %q, want %q", got, "abc")
	}
}
