package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/clock"
	"github.com/matzehuels/animchart/pkg/data"
)

func newTestWatchModel() (watchModel, *clock.Manual) {
	clk := clock.NewManual(epoch)
	cfg := &chart.Config{ChartType: chart.KindBar, XField: "name", YField: "value"}
	datasets := []data.Dataset{
		{{"name": "a", "value": 10}, {"name": "b", "value": 20}},
		{{"name": "a", "value": 5}},
	}
	return newWatchModel(context.Background(), cfg, datasets, clk), clk
}

func update(t *testing.T, m watchModel, msg tea.Msg) watchModel {
	t.Helper()
	next, _ := m.Update(msg)
	wm, ok := next.(watchModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return wm
}

func TestWatchFirstSizeCreatesContainer(t *testing.T) {
	m, _ := newTestWatchModel()
	if !strings.Contains(m.View(), "starting") {
		t.Errorf("View() before sizing = %q", m.View())
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 22})
	if m.container == nil {
		t.Fatal("container not created")
	}
	w, h := m.container.Size()
	if w != 60*cellWidth || h != 20*cellHeight {
		t.Errorf("container size = %vx%v", w, h)
	}
	if m.report == nil || len(m.report.Enter) != 2 {
		t.Errorf("report = %+v", m.report)
	}
	if _, pending := m.container.Deadline(); !pending {
		t.Error("entering marks should be animating")
	}
}

func TestWatchResizeIsDebounced(t *testing.T) {
	m, clk := newTestWatchModel()
	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 22})

	for _, width := range []int{70, 80, 90} {
		m = update(t, m, tea.WindowSizeMsg{Width: width, Height: 22})
		clk.Advance(50 * time.Millisecond)
		m = update(t, m, tickMsg(clk.Now()))
	}
	if w, _ := m.container.Size(); w != 60*cellWidth {
		t.Errorf("width changed to %v before the debounce window", w)
	}

	clk.Advance(300 * time.Millisecond)
	m = update(t, m, tickMsg(clk.Now()))
	if w, _ := m.container.Size(); w != 90*cellWidth {
		t.Errorf("width = %v, want %v", w, 90*cellWidth)
	}
}

func TestWatchHeightChangeRelaysOut(t *testing.T) {
	m, _ := newTestWatchModel()
	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 22})
	m.container.Settle()
	first := m.report

	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 32})
	if _, h := m.container.Size(); h != 30*cellHeight {
		t.Errorf("height = %v, want %v", h, 30*cellHeight)
	}
	if m.report == first || len(m.report.Update) != 2 {
		t.Errorf("report after height change = %+v, want a fresh layout updating both marks", m.report)
	}
}

func TestWatchKeys(t *testing.T) {
	m, _ := newTestWatchModel()
	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 22})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if m.current != 1 {
		t.Errorf("current = %d after n, want 1", m.current)
	}
	if strings.Join(m.report.Exit, ",") != "b" {
		t.Errorf("exit = %v, want [b]", m.report.Exit)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if m.container.Animating() {
		t.Error("still animating after s")
	}
	if !strings.Contains(m.View(), "dataset 2/2") {
		t.Errorf("View() missing dataset counter:\n%s", m.View())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
