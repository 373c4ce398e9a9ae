// Package model defines shared data structures.
package model

import "time"

// SessionRecord describes one engine session, from start (or reset) to
// finish, reset or quit.
type SessionRecord struct {
	ID           string
	StartedAt    time.Time
	EndedAt      time.Time
	Preset       string
	Mode         string
	Alphabet     string
	Candidates   int
	DwellMs      int64
	TimeoutMs    int64
	Policy       string
	LevelReached int
	Correct      int
	Incorrect    int
	Missed       int
	Finished     bool
}

// TrialRecord captures one concluded trial.
type TrialRecord struct {
	SessionID  string
	Seq        int
	Level      int
	Target     string
	Selected   string
	Outcome    string
	ReactionMs int64
	TimeoutMs  int64
	At         time.Time
}

// BlockRecord is a finalized ledger slot.
type BlockRecord struct {
	Block     int
	Correct   int
	Incorrect int
	Missed    int
}

// BlockAggregate sums one block index across sessions.
type BlockAggregate struct {
	Block     int
	Sessions  int
	Correct   int
	Incorrect int
	Missed    int
}

// SymbolAggregate sums trials by target symbol.
type SymbolAggregate struct {
	Symbol        string
	Correct       int
	Incorrect     int
	Missed        int
	ReactionSumMs int64
	ReactionCount int64
}
