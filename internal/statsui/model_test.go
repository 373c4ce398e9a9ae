package statsui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/gyro/internal/model"
	"github.com/verte-zerg/gyro/internal/stats"
)

func sampleReport() stats.Report {
	return stats.Report{
		Sessions:  []model.SessionRecord{{ID: "s1", Correct: 3, Incorrect: 1, LevelReached: 4, Finished: true}},
		Blocks:    []model.BlockAggregate{{Block: 0, Sessions: 1, Correct: 3, Incorrect: 1}},
		Symbols:   []model.SymbolAggregate{{Symbol: "q", Correct: 3, Incorrect: 1, ReactionSumMs: 2400, ReactionCount: 4}},
		Reactions: []int64{900, 800, 700},
	}
}

func TestTabsCycle(t *testing.T) {
	m := NewModel(sampleReport(), 80, 24)
	if !strings.Contains(m.View(), "Block") {
		t.Fatalf("expected blocks table first:\n%s", m.View())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabSymbols || !strings.Contains(m.View(), "Avg Reaction") {
		t.Fatalf("expected symbols tab, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabReactions || !strings.Contains(m.View(), "Reaction (ms") {
		t.Fatalf("expected reactions tab:\n%s", m.View())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabBlocks {
		t.Fatalf("tabs should wrap around, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabReactions {
		t.Fatalf("left should wrap to the last tab, got %d", m.activeTab)
	}
}

func TestCloseEmitsMessage(t *testing.T) {
	m := NewModel(sampleReport(), 80, 24)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	if _, ok := cmd().(CloseMsg); !ok {
		t.Fatalf("expected CloseMsg")
	}
}

func TestEmptyReport(t *testing.T) {
	m := NewModel(stats.Report{}, 60, 20)
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if !strings.Contains(m.View(), "No sessions recorded.") {
		t.Fatalf("expected empty notice:\n%s", m.View())
	}
}
