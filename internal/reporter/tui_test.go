package reporter

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ppiankov/revizor/internal/review"
)

func TestTUIBuildLines(t *testing.T) {
	m := NewTUIModel(sampleReport())
	if len(m.lines) == 0 {
		t.Fatal("no lines built")
	}
	joined := strings.Join(m.lines, "\n")
	if !strings.Contains(joined, "auth.py") {
		t.Error("file header missing")
	}
	if !strings.Contains(joined, "hardcoded password") {
		t.Error("issue line missing")
	}
	if strings.Contains(joined, "clean.py") {
		t.Error("issue-free file listed")
	}
}

func TestTUIEmptyReport(t *testing.T) {
	agg := review.NewAggregator("/repo")
	m := NewTUIModel(agg.Report())
	if len(m.lines) != 1 || !strings.Contains(m.lines[0], "no issues") {
		t.Errorf("lines = %v", m.lines)
	}
}

func TestTUIScrollClamp(t *testing.T) {
	m := NewTUIModel(sampleReport())
	m.width, m.height = 80, 24

	m.scrollUp(5)
	if m.scrollOffset != 0 {
		t.Errorf("scroll above top: %d", m.scrollOffset)
	}
	m.scrollDown(1000)
	if m.scrollOffset > m.maxScroll() {
		t.Errorf("scroll past bottom: %d > %d", m.scrollOffset, m.maxScroll())
	}
}

func TestTUIQuitKeys(t *testing.T) {
	m := NewTUIModel(sampleReport())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q did not quit")
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Error("esc did not quit")
	}
}

func TestTUIViewRenders(t *testing.T) {
	m := NewTUIModel(sampleReport())
	if m.View() != "" {
		t.Error("view should be empty before a window size arrives")
	}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(TUIModel)
	out := m.View()
	if !strings.Contains(out, "revizor") {
		t.Errorf("view missing header:\n%s", out)
	}
	if !strings.Contains(out, "q: quit") {
		t.Error("view missing help line")
	}
}
