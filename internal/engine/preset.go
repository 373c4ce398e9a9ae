package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/gyro/internal/generator"
)

// DefaultPreset is used when no preset is named.
const DefaultPreset = "blocks"

// Preset is a named canonical configuration.
type Preset struct {
	Name        string
	Description string
	Config      Config
}

var presets = map[string]Preset{
	"classic": {
		Name:        "classic",
		Description: "click the target; the first expired timeout ends the run",
		Config: func() Config {
			c := DefaultConfig()
			c.Decoys = generator.DecoysIndependent
			c.OnTimeout = TimeoutGameOver
			return c
		}(),
	},
	"dwell": {
		Name:        "dwell",
		Description: "hover the target for 700ms; endless with decaying timeout",
		Config: func() Config {
			c := DefaultConfig()
			c.DwellThreshold = DefaultDwellThreshold
			return c
		}(),
	},
	"levels": {
		Name:        "levels",
		Description: "hover mode, four levels, one ledger entry per level",
		Config: func() Config {
			c := DefaultConfig()
			c.DwellThreshold = DefaultDwellThreshold
			c.LevelBound = 4
			c.LevelsPerBlock = 1
			return c
		}(),
	},
	"blocks": {
		Name:        "blocks",
		Description: "hover mode, 30 levels in blocks of 10 with 10s/7s/5s timeouts",
		Config: func() Config {
			c := DefaultConfig()
			c.DwellThreshold = DefaultDwellThreshold
			c.Policy = Stepped{Table: []time.Duration{10 * time.Second, 7 * time.Second, 5 * time.Second}}
			c.LevelBound = 30
			c.LevelsPerBlock = 10
			return c
		}(),
	},
	"trials": {
		Name:        "trials",
		Description: "click mode, three levels of ten trials each",
		Config: func() Config {
			c := DefaultConfig()
			c.TrialsPerLevel = 10
			c.LevelBound = 3
			c.LevelsPerBlock = 1
			return c
		}(),
	},
}

// Presets returns all presets sorted by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupPreset returns a copy of the named preset's configuration.
func LookupPreset(name string) (Config, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultPreset
	}
	p, ok := presets[name]
	if !ok {
		names := make([]string, 0, len(presets))
		for _, p := range Presets() {
			names = append(names, p.Name)
		}
		return Config{}, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(names, ", "))
	}
	cfg := p.Config
	cfg.Alphabet = append([]rune(nil), cfg.Alphabet...)
	if s, ok := cfg.Policy.(Stepped); ok {
		cfg.Policy = Stepped{Table: append([]time.Duration(nil), s.Table...)}
	}
	return cfg, nil
}
