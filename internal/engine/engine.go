// Package engine implements the trial state machine: round generation,
// answer resolution by click or pointer dwell, timeout adaptation, level
// progression and per-block statistics.
//
// State is a value. Apply never mutates its receiver; it returns the next
// State. The random stream is part of the value, so applying the same event
// to the same State always yields the same next State.
package engine

import (
	"time"

	"github.com/verte-zerg/gyro/internal/generator"
)

// Outcome is how a trial concluded.
type Outcome int

const (
	// Correct and Incorrect are verdicts on a selection.
	Correct Outcome = iota
	Incorrect
	// Missed marks a trial whose timeout expired unresolved.
	Missed
)

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	case Missed:
		return "missed"
	default:
		return "unknown"
	}
}

// Tally counts outcomes for the current block.
type Tally struct {
	Correct   int
	Incorrect int
	Missed    int
}

// Total returns the number of concluded trials in t.
func (t Tally) Total() int {
	return t.Correct + t.Incorrect + t.Missed
}

func (t *Tally) add(o Outcome) {
	switch o {
	case Correct:
		t.Correct++
	case Incorrect:
		t.Incorrect++
	case Missed:
		t.Missed++
	}
}

// Slot is one ledger entry. Filled slots are never rewritten.
type Slot struct {
	Filled bool
	Tally  Tally
}

// Conclusion describes the most recently concluded trial.
type Conclusion struct {
	Seq      int
	Outcome  Outcome
	Target   rune
	Selected rune // zero when missed
	Reaction time.Duration
	Timeout  time.Duration
	Level    int
}

type trial struct {
	target     rune
	candidates []rune
	dwell      []time.Duration
}

// State is the complete engine state for one session.
type State struct {
	cfg Config
	gen *generator.Generator
	src generator.Source

	trial trial
	focus int

	elapsed  time.Duration
	timeout  time.Duration
	lastTick time.Time
	ticking  bool

	level        int
	trialInLevel int
	tally        Tally
	ledger       []Slot
	finished     bool

	concluded int
	last      *Conclusion
}

// New validates cfg and starts a session with its first trial. src is
// copied into the state, so every State carries its own random stream.
func New(cfg Config, src generator.Source) (State, error) {
	cfg, err := cfg.Validate()
	if err != nil {
		return State{}, err
	}
	s := State{
		cfg: cfg,
		gen: generator.New(cfg.Alphabet, cfg.Candidates, cfg.Decoys),
		src: src,
	}
	s.reset()
	return s, nil
}

// Config returns the normalized configuration.
func (s State) Config() Config {
	return s.cfg
}

// Apply returns the state that follows ev. The receiver is left untouched.
func (s State) Apply(ev Event) State {
	next := s.clone()
	if _, ok := ev.(Reset); ok {
		next.reset()
		return next
	}
	if next.finished {
		return s
	}
	switch ev := ev.(type) {
	case Tick:
		next.tick(ev.Now)
	case Click:
		if next.cfg.DwellMode() || !next.offered(ev.Symbol) {
			return s
		}
		next.conclude(next.verdict(ev.Symbol), ev.Symbol)
	case PointerEnter:
		if !next.cfg.DwellMode() || !next.enter(ev.Slot, ev.Symbol) {
			return s
		}
	case PointerExit:
		if !next.cfg.DwellMode() || next.focus < 0 {
			return s
		}
		next.focus = -1
		next.clearDwell()
	default:
		return s
	}
	return next
}

func (s State) clone() State {
	s.trial.candidates = append([]rune(nil), s.trial.candidates...)
	s.trial.dwell = append([]time.Duration(nil), s.trial.dwell...)
	s.ledger = append([]Slot(nil), s.ledger...)
	if s.last != nil {
		last := *s.last
		s.last = &last
	}
	return s
}

func (s *State) reset() {
	s.focus = -1
	s.elapsed = 0
	s.timeout = s.cfg.InitialTimeout
	s.lastTick = time.Time{}
	s.ticking = false
	s.level = 0
	s.trialInLevel = 0
	s.tally = Tally{}
	s.ledger = make([]Slot, s.cfg.ledgerSlots())
	s.finished = false
	s.concluded = 0
	s.last = nil
	s.regenerate()
}

func (s *State) regenerate() {
	round := s.gen.Generate(&s.src)
	s.trial = trial{
		target:     round.Target,
		candidates: round.Candidates,
		dwell:      make([]time.Duration, len(round.Candidates)),
	}
}

func (s *State) tick(now time.Time) {
	var delta time.Duration
	if s.ticking {
		delta = now.Sub(s.lastTick)
		if delta < 0 {
			delta = 0
		}
	}
	s.ticking = true
	s.lastTick = now

	s.settleBlock()
	if s.finished {
		return
	}

	s.elapsed += delta
	if s.advanceDwell(delta) {
		return
	}
	if s.elapsed > s.timeout {
		s.conclude(Missed, 0)
	}
}

func (s *State) offered(symbol rune) bool {
	for _, c := range s.trial.candidates {
		if c == symbol {
			return true
		}
	}
	return false
}

func (s *State) verdict(selected rune) Outcome {
	if selected == s.trial.target {
		return Correct
	}
	return Incorrect
}

// conclude closes the current trial and prepares the next one.
func (s *State) conclude(outcome Outcome, selected rune) {
	s.concluded++
	s.last = &Conclusion{
		Seq:      s.concluded,
		Outcome:  outcome,
		Target:   s.trial.target,
		Selected: selected,
		Reaction: s.elapsed,
		Timeout:  s.timeout,
		Level:    s.level,
	}
	s.elapsed = 0
	s.record(outcome)
	if s.finished {
		return
	}
	s.regenerate()
	s.clearDwell()
}
