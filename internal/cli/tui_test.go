package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/svcmap/pkg/geom"
	"github.com/matzehuels/svcmap/pkg/layout"
)

func testFrame(n int) *layout.Frame {
	f := &layout.Frame{}
	for i := range n {
		id := string(rune('a' + i))
		f.Cards = append(f.Cards, layout.Card{
			ID:      id,
			Caption: "svc-" + id,
			Box:     geom.XYWH{X: 0, Y: float64(i) * 100, W: 200, H: 80},
			Row:     i,
		})
	}
	return f
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m CardListModel, keys ...string) (CardListModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(CardListModel)
	}
	return m, cmd
}

func TestCardListModel_Navigation(t *testing.T) {
	m := NewCardListModel(testFrame(3))

	m, _ = update(m, "up")
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after up at top, want 0", m.Cursor)
	}
	m, _ = update(m, "down", "j", "down")
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want clamped to 2", m.Cursor)
	}
	m, _ = update(m, "k")
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d after k, want 1", m.Cursor)
	}
}

func TestCardListModel_Scrolling(t *testing.T) {
	m := NewCardListModel(testFrame(8))
	m.Height = 3

	m, _ = update(m, "down", "down", "down", "down")
	if m.Cursor != 4 || m.Offset != 2 {
		t.Errorf("Cursor, Offset = %d, %d, want 4, 2", m.Cursor, m.Offset)
	}
	m, _ = update(m, "up", "up", "up")
	if m.Cursor != 1 || m.Offset != 1 {
		t.Errorf("Cursor, Offset = %d, %d, want 1, 1", m.Cursor, m.Offset)
	}
}

func TestCardListModel_WindowSize(t *testing.T) {
	m := NewCardListModel(testFrame(1))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	if got := next.(CardListModel).Height; got != 30 {
		t.Errorf("Height = %d, want 30", got)
	}
	next, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	if got := next.(CardListModel).Height; got != 5 {
		t.Errorf("Height = %d, want minimum 5", got)
	}
}

func TestCardListModel_Detail(t *testing.T) {
	m := NewCardListModel(testFrame(2))

	m, _ = update(m, "down", "enter")
	if !m.Detail {
		t.Fatal("enter should open the detail pane")
	}
	if view := m.View(); !strings.Contains(view, "svc-b") || !strings.Contains(view, "box") {
		t.Errorf("detail pane missing card b:\n%s", view)
	}

	m, cmd := update(m, "q")
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if m.Selected != "b" {
		t.Errorf("Selected = %q, want b", m.Selected)
	}
}

func TestCardListModel_QuitWithoutDetail(t *testing.T) {
	m, cmd := update(NewCardListModel(testFrame(2)), "esc")
	if cmd == nil {
		t.Fatal("esc should quit")
	}
	if m.Selected != "" {
		t.Errorf("Selected = %q, want none", m.Selected)
	}
}

func TestCardListModel_Empty(t *testing.T) {
	f := &layout.Frame{Pending: []string{"x", "y"}}
	m, _ := update(NewCardListModel(f), "down", "enter")
	if m.Detail || m.Cursor != 0 {
		t.Errorf("empty frame: Detail=%v Cursor=%d", m.Detail, m.Cursor)
	}
	view := m.View()
	if !strings.Contains(view, "no placed cards") || !strings.Contains(view, "2 pending: x, y") {
		t.Errorf("view = %q", view)
	}
}
