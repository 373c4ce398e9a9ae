package engine

import "time"

// Mode is the input modality of a session.
type Mode int

const (
	ModeClick Mode = iota
	ModeDwell
)

func (m Mode) String() string {
	if m == ModeDwell {
		return "dwell"
	}
	return "click"
}

// ViewModel is a read-only projection of State for rendering.
type ViewModel struct {
	Mode       Mode
	Target     rune
	Candidates []rune
	// Focus is the slot under the pointer, or -1.
	Focus          int
	Dwell          []time.Duration
	DwellThreshold time.Duration

	Elapsed   time.Duration
	Timeout   time.Duration
	Remaining time.Duration

	Level        int
	TrialInLevel int
	Block        int
	Tally        Tally
	Ledger       []Slot
	Finished     bool

	Concluded int
	Last      *Conclusion
}

// Snapshot projects s for the presentation shell.
func (s State) Snapshot() ViewModel {
	s = s.clone()
	mode := ModeClick
	if s.cfg.DwellMode() {
		mode = ModeDwell
	}
	remaining := s.timeout - s.elapsed
	if remaining < 0 {
		remaining = 0
	}
	block := 0
	if s.cfg.LevelsPerBlock > 0 {
		block = s.level / s.cfg.LevelsPerBlock
	}
	return ViewModel{
		Mode:           mode,
		Target:         s.trial.target,
		Candidates:     s.trial.candidates,
		Focus:          s.focus,
		Dwell:          s.trial.dwell,
		DwellThreshold: s.cfg.DwellThreshold,
		Elapsed:        s.elapsed,
		Timeout:        s.timeout,
		Remaining:      remaining,
		Level:          s.level,
		TrialInLevel:   s.trialInLevel,
		Block:          block,
		Tally:          s.tally,
		Ledger:         s.ledger,
		Finished:       s.finished,
		Concluded:      s.concluded,
		Last:           s.last,
	}
}

// DwellProgress returns how far the focused slot is towards resolving, in [0, 1].
func (v ViewModel) DwellProgress() float64 {
	if v.Focus < 0 || v.Focus >= len(v.Dwell) || v.DwellThreshold <= 0 {
		return 0
	}
	p := float64(v.Dwell[v.Focus]) / float64(v.DwellThreshold)
	if p > 1 {
		p = 1
	}
	return p
}

// TimeFraction returns the share of the timeout still remaining, in [0, 1].
func (v ViewModel) TimeFraction() float64 {
	if v.Timeout <= 0 {
		return 0
	}
	return float64(v.Remaining) / float64(v.Timeout)
}
