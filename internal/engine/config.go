package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/gyro/internal/alphabet"
	"github.com/verte-zerg/gyro/internal/generator"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid engine config")

// Canonical values shared by the presets.
const (
	DefaultCandidates     = 4
	DefaultDwellThreshold = 700 * time.Millisecond
	DefaultTimeout        = 10 * time.Second
	DefaultDecayStep      = 500 * time.Millisecond
	DefaultDecayFloor     = 5 * time.Second
)

// TimeoutAction decides what an expired trial does to the session.
type TimeoutAction int

const (
	// TimeoutMiss counts a miss and moves on to a fresh trial.
	TimeoutMiss TimeoutAction = iota
	// TimeoutGameOver counts a miss and finishes the session.
	TimeoutGameOver
)

func (a TimeoutAction) String() string {
	switch a {
	case TimeoutMiss:
		return "miss"
	case TimeoutGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Policy adapts the trial timeout as the session progresses.
type Policy interface {
	// Name is a short label for reports.
	Name() string
	isPolicy()
}

// Decay shortens the timeout by Step after every correct verdict, never
// below Floor and never lengthening it.
type Decay struct {
	Step  time.Duration
	Floor time.Duration
}

// Name implements Policy.
func (Decay) Name() string { return "decay" }

func (Decay) isPolicy() {}

func (d Decay) next(current time.Duration) time.Duration {
	if current <= d.Floor {
		return current
	}
	current -= d.Step
	if current < d.Floor {
		return d.Floor
	}
	return current
}

// Stepped assigns a fixed timeout to every block: Table[i] applies to block
// index i, and blocks past the end of the table get a zero timeout.
type Stepped struct {
	Table []time.Duration
}

// Name implements Policy.
func (Stepped) Name() string { return "stepped" }

func (Stepped) isPolicy() {}

func (s Stepped) forBlock(block int) time.Duration {
	if block < 0 || block >= len(s.Table) {
		return 0
	}
	return s.Table[block]
}

// Config enumerates everything a session needs.
type Config struct {
	Alphabet       []rune
	Candidates     int
	Decoys         generator.DecoyPolicy
	DwellThreshold time.Duration
	InitialTimeout time.Duration
	Policy         Policy

	// LevelBound finishes the session when reached; 0 plays forever.
	LevelBound int
	// TrialsPerLevel counted trials advance the level by one.
	TrialsPerLevel int
	// LevelsPerBlock groups levels into ledger blocks; 0 disables the ledger.
	LevelsPerBlock int

	AdvanceOnResolve bool
	AdvanceOnMiss    bool
	MissAsIncorrect  bool
	OnTimeout        TimeoutAction
}

// DefaultConfig returns the canonical click-mode configuration.
func DefaultConfig() Config {
	return Config{
		Alphabet:         []rune(alphabet.Alnum),
		Candidates:       DefaultCandidates,
		Decoys:           generator.DecoysDistinct,
		InitialTimeout:   DefaultTimeout,
		Policy:           Decay{Step: DefaultDecayStep, Floor: DefaultDecayFloor},
		TrialsPerLevel:   1,
		AdvanceOnResolve: true,
		AdvanceOnMiss:    true,
	}
}

// DwellMode reports whether candidates are chosen by pointer dwell.
func (c Config) DwellMode() bool {
	return c.DwellThreshold > 0
}

// Validate checks c and returns a normalized copy.
func (c Config) Validate() (Config, error) {
	c.Alphabet = alphabet.Unique(c.Alphabet)
	if len(c.Alphabet) == 0 {
		return c, fmt.Errorf("%w: alphabet must not be empty", ErrInvalidConfig)
	}
	if c.Decoys == generator.DecoysDistinct && len(c.Alphabet) < 2 {
		return c, fmt.Errorf("%w: distinct decoys need at least 2 symbols", ErrInvalidConfig)
	}
	if c.Candidates < 1 {
		return c, fmt.Errorf("%w: candidates must be >= 1", ErrInvalidConfig)
	}
	if c.DwellThreshold < 0 {
		return c, fmt.Errorf("%w: dwell threshold must be >= 0", ErrInvalidConfig)
	}
	if c.LevelBound < 0 || c.LevelsPerBlock < 0 {
		return c, fmt.Errorf("%w: level bound and block size must be >= 0", ErrInvalidConfig)
	}
	if c.TrialsPerLevel == 0 {
		c.TrialsPerLevel = 1
	}
	if c.TrialsPerLevel < 0 {
		return c, fmt.Errorf("%w: trials per level must be >= 1", ErrInvalidConfig)
	}
	switch p := c.Policy.(type) {
	case nil:
		c.Policy = Decay{Step: DefaultDecayStep, Floor: DefaultDecayFloor}
	case Decay:
		if p.Step < 0 || p.Floor < 0 {
			return c, fmt.Errorf("%w: decay step and floor must be >= 0", ErrInvalidConfig)
		}
	case Stepped:
		if len(p.Table) == 0 {
			return c, fmt.Errorf("%w: stepped policy needs a timeout table", ErrInvalidConfig)
		}
		if c.LevelsPerBlock == 0 {
			return c, fmt.Errorf("%w: stepped policy needs levels per block", ErrInvalidConfig)
		}
		for _, d := range p.Table {
			if d < 0 {
				return c, fmt.Errorf("%w: timeout table entries must be >= 0", ErrInvalidConfig)
			}
		}
		p.Table = append([]time.Duration(nil), p.Table...)
		c.Policy = p
		c.InitialTimeout = p.forBlock(0)
	}
	if c.InitialTimeout < 0 {
		return c, fmt.Errorf("%w: timeout must be >= 0", ErrInvalidConfig)
	}
	return c, nil
}

// ledgerSlots is the number of preallocated ledger slots; 0 means the ledger
// grows as blocks close.
func (c Config) ledgerSlots() int {
	if c.LevelsPerBlock == 0 || c.LevelBound == 0 {
		return 0
	}
	return (c.LevelBound + c.LevelsPerBlock - 1) / c.LevelsPerBlock
}
