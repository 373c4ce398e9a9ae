package engine

// record books outcome against the tally, adapts the timeout and advances
// the level, closing blocks and the session as their bounds are reached.
func (s *State) record(outcome Outcome) {
	counted := outcome
	if outcome == Missed && s.cfg.MissAsIncorrect {
		counted = Incorrect
	}
	s.tally.add(counted)

	if d, ok := s.cfg.Policy.(Decay); ok && outcome == Correct {
		s.timeout = d.next(s.timeout)
	}

	advance := s.cfg.AdvanceOnResolve
	if outcome == Missed {
		advance = s.cfg.AdvanceOnMiss
	}
	if advance {
		s.trialInLevel++
		if s.trialInLevel >= s.cfg.TrialsPerLevel {
			s.trialInLevel = 0
			s.level++
		}
	}
	s.settleBlock()

	switch {
	case s.cfg.LevelBound > 0 && s.level >= s.cfg.LevelBound:
		s.finish()
	case outcome == Missed && s.cfg.OnTimeout == TimeoutGameOver:
		s.finish()
	}
}

// settleBlock closes the block that ends at the current level. It is level
// triggered and may run any number of times for the same level.
func (s *State) settleBlock() {
	n := s.cfg.LevelsPerBlock
	if n == 0 || s.level == 0 || s.level%n != 0 {
		return
	}
	block := s.level/n - 1
	if !s.finalize(block) {
		return
	}
	if p, ok := s.cfg.Policy.(Stepped); ok {
		s.timeout = p.forBlock(block + 1)
	}
}

// finalize snapshots the tally into ledger slot block and zeroes it.
// It reports false when the slot is already filled or out of range.
func (s *State) finalize(block int) bool {
	if block < 0 {
		return false
	}
	if block >= len(s.ledger) {
		if s.cfg.ledgerSlots() > 0 {
			return false
		}
		s.ledger = append(s.ledger, make([]Slot, block+1-len(s.ledger))...)
	}
	if s.ledger[block].Filled {
		return false
	}
	s.ledger[block] = Slot{Filled: true, Tally: s.tally}
	s.tally = Tally{}
	return true
}

func (s *State) finish() {
	if s.cfg.LevelsPerBlock > 0 && s.tally.Total() > 0 {
		s.finalize(s.level / s.cfg.LevelsPerBlock)
	}
	s.finished = true
	s.focus = -1
	s.clearDwell()
}
