package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/gyro/internal/engine"
	"github.com/verte-zerg/gyro/internal/generator"
	"github.com/verte-zerg/gyro/internal/statsui"
	"github.com/verte-zerg/gyro/internal/store"
)

func newTestModel(t *testing.T, cfg engine.Config) (*Model, *store.Store) {
	t.Helper()
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	state, err := engine.New(cfg, generator.NewSource(7))
	if err != nil {
		t.Fatalf("new state: %v", err)
	}
	m, err := NewModel(state, st, Options{Preset: "test", Alphabet: "alnum"})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, st
}

func pressTarget(m *Model) {
	target := m.state.Snapshot().Target
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{target}})
}

func TestClicksPersistAndFinish(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.LevelBound = 2
	m, st := newTestModel(t, cfg)
	id := m.session.ID

	pressTarget(m)
	pressTarget(m)

	if !m.state.Snapshot().Finished {
		t.Fatalf("expected session to finish at the level bound")
	}
	ctx := context.Background()
	sessions, err := st.ListSessions(ctx)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != id {
		t.Fatalf("expected one closed session, got %+v", sessions)
	}
	if !sessions[0].Finished || sessions[0].Correct != 2 || sessions[0].LevelReached != 2 {
		t.Fatalf("unexpected session record: %+v", sessions[0])
	}
	aggs, err := st.ListSymbolAggregates(ctx, []string{id})
	if err != nil {
		t.Fatalf("symbol aggregates: %v", err)
	}
	total := 0
	for _, a := range aggs {
		total += a.Correct
	}
	if total != 2 {
		t.Fatalf("expected 2 stored correct trials, got %d", total)
	}
}

func TestQuitClosesOpenSession(t *testing.T) {
	m, st := newTestModel(t, engine.DefaultConfig())
	pressTarget(m)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	sessions, err := st.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Finished || sessions[0].Correct != 1 {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}
}

func TestRestartStartsFreshSession(t *testing.T) {
	m, st := newTestModel(t, engine.DefaultConfig())
	first := m.session.ID
	pressTarget(m)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})

	if m.session.ID == first || m.session.ID == "" {
		t.Fatalf("expected a new session id, got %q", m.session.ID)
	}
	if vm := m.state.Snapshot(); vm.Concluded != 0 || vm.Level != 0 {
		t.Fatalf("engine not reset: %+v", vm)
	}
	if m.recorded != 0 || m.totals.Total() != 0 {
		t.Fatalf("counters not reset")
	}
	sessions, err := st.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != first {
		t.Fatalf("expected only the first session closed, got %+v", sessions)
	}
}

func TestDwellByPointer(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.DwellThreshold = 300 * time.Millisecond
	m, st := newTestModel(t, cfg)

	vm := m.state.Snapshot()
	slot := -1
	for i, c := range vm.Candidates {
		if c == vm.Target {
			slot = i
		}
	}
	x, y := newGrid(len(vm.Candidates), m.width).center(slot)
	m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion})
	if got := m.state.Snapshot().Focus; got != slot {
		t.Fatalf("expected focus %d, got %d", slot, got)
	}

	base := time.Unix(1000, 0)
	m.Update(tickMsg(base))
	m.Update(tickMsg(base.Add(400 * time.Millisecond)))

	vm = m.state.Snapshot()
	if vm.Concluded != 1 || vm.Last == nil || vm.Last.Outcome != engine.Correct {
		t.Fatalf("expected a correct dwell resolution, got %+v", vm.Last)
	}
	reactions, err := st.ListReactionTimes(context.Background(), []string{m.session.ID})
	if err != nil {
		t.Fatalf("reaction times: %v", err)
	}
	if len(reactions) != 1 || reactions[0] != 400 {
		t.Fatalf("unexpected reactions: %v", reactions)
	}

	// Leaving the grid clears focus.
	m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	if got := m.state.Snapshot().Focus; got != -1 {
		t.Fatalf("expected focus cleared, got %d", got)
	}
}

func TestResultsOnlyWhenFinished(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.LevelBound = 1
	m, _ := newTestModel(t, cfg)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.results != nil {
		t.Fatalf("results should not open mid-session")
	}
	pressTarget(m)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.results == nil {
		t.Fatalf("expected results after finishing")
	}
	if !strings.Contains(m.View(), "Blocks") {
		t.Fatalf("expected results view:\n%s", m.View())
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected close command")
	}
	m.Update(cmd())
	if m.results != nil {
		t.Fatalf("results should close on %T", statsui.CloseMsg{})
	}
}

func TestRenderFooter(t *testing.T) {
	vm := engine.ViewModel{
		Level:   2,
		Block:   1,
		Ledger:  make([]engine.Slot, 3),
		Timeout: 8500 * time.Millisecond,
		Tally:   engine.Tally{Correct: 4, Incorrect: 1, Missed: 2},
		Last:    &engine.Conclusion{Outcome: engine.Incorrect},
	}
	out := renderFooter(vm, 10)
	for _, want := range []string{"Level 3/10", "Block 2", "Timeout 8.5s", "✓ 4 ✗ 1 ⌛ 2", "NO!!!"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
	vm.Last = &engine.Conclusion{Outcome: engine.Correct, Reaction: 420 * time.Millisecond}
	if out := renderFooter(vm, 0); !strings.Contains(out, "Correct 420ms") || !strings.Contains(out, "Level 3 ") {
		t.Fatalf("unexpected footer: %s", out)
	}
}
