package engine

import "time"

// enter moves focus to slot. Entering the focused slot again, an unknown
// slot, or a slot that no longer shows symbol changes nothing.
func (s *State) enter(slot int, symbol rune) bool {
	if slot < 0 || slot >= len(s.trial.candidates) {
		return false
	}
	if symbol != 0 && s.trial.candidates[slot] != symbol {
		return false
	}
	if slot == s.focus {
		return false
	}
	s.focus = slot
	s.clearDwell()
	return true
}

// advanceDwell accumulates delta on the focused slot and resolves the trial
// once the accumulator is strictly past the threshold. Focus stays on the
// slot, so the candidate that replaces it starts accumulating right away.
func (s *State) advanceDwell(delta time.Duration) bool {
	if !s.cfg.DwellMode() || s.focus < 0 {
		return false
	}
	s.trial.dwell[s.focus] += delta
	if s.trial.dwell[s.focus] <= s.cfg.DwellThreshold {
		return false
	}
	selected := s.trial.candidates[s.focus]
	s.conclude(s.verdict(selected), selected)
	return true
}

func (s *State) clearDwell() {
	for i := range s.trial.dwell {
		s.trial.dwell[i] = 0
	}
}
