// Package tui provides the Bubble Tea trial interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/gyro/internal/engine"
	"github.com/verte-zerg/gyro/internal/logging"
	"github.com/verte-zerg/gyro/internal/model"
	"github.com/verte-zerg/gyro/internal/stats"
	"github.com/verte-zerg/gyro/internal/statsui"
	"github.com/verte-zerg/gyro/internal/store"
)

// DefaultTick is the clock resolution fed to the engine.
const DefaultTick = 10 * time.Millisecond

// Options describe the session for records and rendering.
type Options struct {
	Preset   string
	Alphabet string
	Tick     time.Duration
	Logger   *slog.Logger
}

type tickMsg time.Time

// Model implements the Bubble Tea trial UI.
type Model struct {
	state  engine.State
	store  *store.Store
	opts   Options
	logger *slog.Logger
	now    func() time.Time

	session  model.SessionRecord
	closed   bool
	recorded int
	totals   engine.Tally

	hover   int
	keys    keyMap
	help    help.Model
	timer   progress.Model
	results *statsui.Model

	width  int
	height int
}

// NewModel wraps state and opens its first session in st.
func NewModel(state engine.State, st *store.Store, opts Options) (*Model, error) {
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	m := &Model{
		state:  state,
		store:  st,
		opts:   opts,
		logger: opts.Logger,
		now:    time.Now,
		hover:  -1,
		keys:   newKeyMap(),
		help:   help.New(),
		timer:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	if err := m.startSession(); err != nil {
		return nil, err
	}
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.results != nil {
			m.results.Update(msg)
		}
		return m, nil
	case tickMsg:
		m.apply(engine.Tick{Now: time.Time(msg)})
		return m, m.tick()
	case statsui.CloseMsg:
		m.results = nil
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && (m.results == nil || msg.Type == tea.KeyCtrlC) {
			m.closeSession()
			return m, tea.Quit
		}
		if m.results != nil {
			_, cmd := m.results.Update(msg)
			return m, cmd
		}
		switch {
		case key.Matches(msg, m.keys.Reset):
			m.restart()
		case key.Matches(msg, m.keys.Results):
			m.openResults()
		case msg.Type == tea.KeyRunes:
			for _, r := range msg.Runes {
				m.apply(engine.Click{Symbol: r})
			}
		}
		return m, nil
	case tea.MouseMsg:
		if m.results == nil {
			m.handleMouse(msg)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	vm := m.state.Snapshot()
	if vm.Finished {
		return
	}
	slot := newGrid(len(vm.Candidates), m.width).cellAt(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && slot >= 0 {
			m.apply(engine.Click{Symbol: vm.Candidates[slot]})
		}
	case tea.MouseActionMotion:
		if slot == m.hover {
			return
		}
		m.hover = slot
		if slot < 0 {
			m.apply(engine.PointerExit{})
			return
		}
		m.apply(engine.PointerEnter{Slot: slot, Symbol: vm.Candidates[slot]})
	}
}

// apply advances the engine and persists whatever ev concluded.
func (m *Model) apply(ev engine.Event) {
	m.state = m.state.Apply(ev)
	vm := m.state.Snapshot()
	if vm.Concluded > m.recorded && vm.Last != nil {
		if gap := vm.Concluded - m.recorded; gap > 1 {
			m.logger.Warn("conclusions skipped", "count", gap-1)
		}
		m.recorded = vm.Concluded
		m.record(*vm.Last)
	}
	if vm.Finished && !m.closed {
		m.logger.Info("session finished", "session", m.session.ID, "level", vm.Level)
		m.closeSession()
	}
}

func (m *Model) record(c engine.Conclusion) {
	m.totals = addOutcome(m.totals, c.Outcome)
	tr := model.TrialRecord{
		SessionID:  m.session.ID,
		Seq:        c.Seq,
		Level:      c.Level,
		Target:     string(c.Target),
		Outcome:    c.Outcome.String(),
		ReactionMs: c.Reaction.Milliseconds(),
		TimeoutMs:  c.Timeout.Milliseconds(),
		At:         m.now(),
	}
	if c.Outcome != engine.Missed {
		tr.Selected = string(c.Selected)
	}
	m.logger.Debug("trial concluded", "seq", c.Seq, "outcome", tr.Outcome, "target", tr.Target, "reaction_ms", tr.ReactionMs)
	if err := m.store.InsertTrial(context.Background(), tr); err != nil {
		m.logger.Error("failed to save trial", "error", err)
	}
}

func addOutcome(t engine.Tally, o engine.Outcome) engine.Tally {
	switch o {
	case engine.Correct:
		t.Correct++
	case engine.Incorrect:
		t.Incorrect++
	case engine.Missed:
		t.Missed++
	}
	return t
}

func (m *Model) startSession() error {
	cfg := m.state.Config()
	mode := m.state.Snapshot().Mode
	rec := model.SessionRecord{
		StartedAt:  m.now(),
		Preset:     m.opts.Preset,
		Mode:       mode.String(),
		Alphabet:   m.opts.Alphabet,
		Candidates: cfg.Candidates,
		DwellMs:    cfg.DwellThreshold.Milliseconds(),
		TimeoutMs:  cfg.InitialTimeout.Milliseconds(),
		Policy:     cfg.Policy.Name(),
	}
	id, err := m.store.StartSession(context.Background(), rec)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	rec.ID = id
	m.session = rec
	m.closed = false
	m.recorded = 0
	m.totals = engine.Tally{}
	m.logger.Info("session started", "session", id, "mode", rec.Mode, "preset", rec.Preset)
	return nil
}

// closeSession writes totals and finalized blocks. It runs at most once per
// session.
func (m *Model) closeSession() {
	if m.closed {
		return
	}
	m.closed = true
	vm := m.state.Snapshot()
	rec := m.session
	rec.EndedAt = m.now()
	rec.LevelReached = vm.Level
	rec.Correct = m.totals.Correct
	rec.Incorrect = m.totals.Incorrect
	rec.Missed = m.totals.Missed
	rec.Finished = vm.Finished
	var blocks []model.BlockRecord
	for i, slot := range vm.Ledger {
		if !slot.Filled {
			continue
		}
		blocks = append(blocks, model.BlockRecord{
			Block:     i,
			Correct:   slot.Tally.Correct,
			Incorrect: slot.Tally.Incorrect,
			Missed:    slot.Tally.Missed,
		})
	}
	if err := m.store.FinishSession(context.Background(), rec, blocks); err != nil {
		m.logger.Error("failed to close session", "session", rec.ID, "error", err)
		return
	}
	m.session = rec
}

func (m *Model) restart() {
	m.closeSession()
	m.state = m.state.Apply(engine.Reset{})
	m.hover = -1
	if err := m.startSession(); err != nil {
		m.logger.Error("failed to restart session", "error", err)
	}
}

func (m *Model) openResults() {
	if !m.state.Snapshot().Finished {
		return
	}
	report, err := stats.BuildReport(context.Background(), m.store)
	if err != nil {
		m.logger.Error("failed to build report", "error", err)
		return
	}
	m.results = statsui.NewModel(report, m.width, m.height)
}
