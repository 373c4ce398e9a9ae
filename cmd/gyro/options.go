package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/gyro/internal/alphabet"
	"github.com/verte-zerg/gyro/internal/config"
	"github.com/verte-zerg/gyro/internal/engine"
	"github.com/verte-zerg/gyro/internal/generator"
)

// playOptions holds flag values. set records which ones were given by a
// flag or the config file; everything else comes from the preset.
type playOptions struct {
	configPath string

	preset           string
	alphabet         string
	alphabetFile     string
	noAmbiguous      bool
	candidates       int
	decoys           string
	dwell            time.Duration
	timeout          time.Duration
	policy           string
	decayStep        time.Duration
	decayFloor       time.Duration
	table            string
	levels           int
	levelsPerBlock   int
	trialsPerLevel   int
	advanceOnResolve bool
	advanceOnMiss    bool
	missAsIncorrect  bool
	onTimeout        string
	seed             int64

	tick     time.Duration
	report   bool
	logLevel string
	logFile  string

	set map[string]bool
}

// applyFileConfig merges cfg into o for every flag the user did not pass.
func applyFileConfig(cmd *cobra.Command, o *playOptions, cfg config.FileConfig) error {
	if o.set == nil {
		o.set = map[string]bool{}
	}
	t := cfg.Trial
	applyConfig(cmd, o.set, "preset", &o.preset, t.Preset)
	applyConfig(cmd, o.set, "alphabet", &o.alphabet, t.Alphabet)
	applyConfig(cmd, o.set, "alphabet-file", &o.alphabetFile, t.AlphabetFile)
	applyConfig(cmd, o.set, "no-ambiguous", &o.noAmbiguous, t.NoAmbiguous)
	applyConfig(cmd, o.set, "candidates", &o.candidates, t.Candidates)
	applyConfig(cmd, o.set, "decoys", &o.decoys, t.Decoys)
	applyConfig(cmd, o.set, "policy", &o.policy, t.Policy)
	applyConfig(cmd, o.set, "table", &o.table, t.Table)
	applyConfig(cmd, o.set, "levels", &o.levels, t.Levels)
	applyConfig(cmd, o.set, "levels-per-block", &o.levelsPerBlock, t.LevelsPerBlock)
	applyConfig(cmd, o.set, "trials-per-level", &o.trialsPerLevel, t.TrialsPerLevel)
	applyConfig(cmd, o.set, "advance-on-resolve", &o.advanceOnResolve, t.AdvanceOnResolve)
	applyConfig(cmd, o.set, "advance-on-miss", &o.advanceOnMiss, t.AdvanceOnMiss)
	applyConfig(cmd, o.set, "miss-as-incorrect", &o.missAsIncorrect, t.MissAsIncorrect)
	applyConfig(cmd, o.set, "on-timeout", &o.onTimeout, t.OnTimeout)
	applyConfig(cmd, o.set, "seed", &o.seed, t.Seed)
	applyConfig(cmd, o.set, "report", &o.report, cfg.UI.Report)
	applyConfig(cmd, o.set, "log-level", &o.logLevel, cfg.UI.LogLevel)
	applyConfig(cmd, o.set, "log-file", &o.logFile, cfg.UI.LogFile)

	durations := []struct {
		name   string
		target *time.Duration
		value  *string
	}{
		{"dwell", &o.dwell, t.Dwell},
		{"timeout", &o.timeout, t.Timeout},
		{"decay-step", &o.decayStep, t.DecayStep},
		{"decay-floor", &o.decayFloor, t.DecayFloor},
		{"tick", &o.tick, cfg.UI.Tick},
	}
	for _, d := range durations {
		if err := applyDurationConfig(cmd, o.set, d.name, d.target, d.value); err != nil {
			return err
		}
	}
	return nil
}

func applyConfig[T any](cmd *cobra.Command, set map[string]bool, name string, target, value *T) {
	if cmd.Flags().Changed(name) {
		set[name] = true
		return
	}
	if value == nil {
		return
	}
	*target = *value
	set[name] = true
}

func applyDurationConfig(cmd *cobra.Command, set map[string]bool, name string, target *time.Duration, value *string) error {
	if cmd.Flags().Changed(name) {
		set[name] = true
		return nil
	}
	if value == nil {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*value))
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = d
	set[name] = true
	return nil
}

// buildEngineConfig starts from the named preset and overrides every
// explicitly set option. It also returns a label for the alphabet.
func buildEngineConfig(o playOptions) (engine.Config, string, error) {
	cfg, err := engine.LookupPreset(o.preset)
	if err != nil {
		return engine.Config{}, "", err
	}
	label := alphabet.Default
	if o.set["alphabet"] || o.set["alphabet-file"] || o.noAmbiguous {
		symbols, name, err := resolveAlphabet(o)
		if err != nil {
			return engine.Config{}, "", err
		}
		cfg.Alphabet = symbols
		label = name
	}
	if o.set["candidates"] {
		cfg.Candidates = o.candidates
	}
	if o.set["decoys"] {
		decoys, err := parseDecoys(o.decoys)
		if err != nil {
			return engine.Config{}, "", err
		}
		cfg.Decoys = decoys
	}
	if o.set["dwell"] {
		cfg.DwellThreshold = o.dwell
	}
	if o.set["timeout"] {
		cfg.InitialTimeout = o.timeout
	}
	policy, err := buildPolicy(cfg.Policy, o)
	if err != nil {
		return engine.Config{}, "", err
	}
	cfg.Policy = policy
	if o.set["levels"] {
		cfg.LevelBound = o.levels
	}
	if o.set["levels-per-block"] {
		cfg.LevelsPerBlock = o.levelsPerBlock
	}
	if o.set["trials-per-level"] {
		cfg.TrialsPerLevel = o.trialsPerLevel
	}
	if o.set["advance-on-resolve"] {
		cfg.AdvanceOnResolve = o.advanceOnResolve
	}
	if o.set["advance-on-miss"] {
		cfg.AdvanceOnMiss = o.advanceOnMiss
	}
	if o.set["miss-as-incorrect"] {
		cfg.MissAsIncorrect = o.missAsIncorrect
	}
	if o.set["on-timeout"] {
		action, err := parseTimeoutAction(o.onTimeout)
		if err != nil {
			return engine.Config{}, "", err
		}
		cfg.OnTimeout = action
	}
	cfg, err = cfg.Validate()
	if err != nil {
		return engine.Config{}, "", err
	}
	return cfg, label, nil
}

func buildPolicy(current engine.Policy, o playOptions) (engine.Policy, error) {
	name := ""
	if current != nil {
		name = current.Name()
	}
	if o.set["policy"] {
		name = strings.ToLower(strings.TrimSpace(o.policy))
	}
	switch name {
	case "", "decay":
		d := engine.Decay{Step: engine.DefaultDecayStep, Floor: engine.DefaultDecayFloor}
		if prev, ok := current.(engine.Decay); ok {
			d = prev
		}
		if o.set["decay-step"] {
			d.Step = o.decayStep
		}
		if o.set["decay-floor"] {
			d.Floor = o.decayFloor
		}
		return d, nil
	case "stepped":
		var s engine.Stepped
		if prev, ok := current.(engine.Stepped); ok {
			s = prev
		}
		if o.set["table"] {
			table, err := parseTable(o.table)
			if err != nil {
				return nil, err
			}
			s.Table = table
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown policy %q (want decay or stepped)", name)
	}
}

func resolveAlphabet(o playOptions) ([]rune, string, error) {
	var (
		symbols []rune
		label   string
		err     error
	)
	if o.alphabetFile != "" {
		path := resolveAlphabetPath(o.alphabetFile)
		symbols, err = alphabet.Load(path)
		label = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	} else {
		name := o.alphabet
		if name == "" {
			name = alphabet.Default
		}
		symbols, err = alphabet.Named(name)
		label = name
	}
	if err != nil {
		return nil, "", err
	}
	if o.noAmbiguous {
		symbols = alphabet.WithoutAmbiguous(symbols)
		label += " (unambiguous)"
	}
	return symbols, label, nil
}

// resolveAlphabetPath looks bare file names up in the alphabet directory.
func resolveAlphabetPath(path string) string {
	if strings.ContainsRune(path, filepath.Separator) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	candidate := filepath.Join(config.DefaultAlphabetDir(), path)
	if filepath.Ext(candidate) == "" {
		candidate += ".txt"
	}
	return candidate
}

func parseDecoys(s string) (generator.DecoyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "distinct":
		return generator.DecoysDistinct, nil
	case "independent":
		return generator.DecoysIndependent, nil
	default:
		return 0, fmt.Errorf("unknown decoys %q (want distinct or independent)", s)
	}
}

func parseTimeoutAction(s string) (engine.TimeoutAction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "miss":
		return engine.TimeoutMiss, nil
	case "game-over", "gameover":
		return engine.TimeoutGameOver, nil
	default:
		return 0, fmt.Errorf("unknown on-timeout %q (want miss or game-over)", s)
	}
}

// parseTable reads a comma separated list of durations, e.g. "10s,7s,5s".
func parseTable(s string) ([]time.Duration, error) {
	parts := strings.Split(s, ",")
	table := make([]time.Duration, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := time.ParseDuration(part)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout table entry %q: %w", part, err)
		}
		table = append(table, d)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("timeout table must not be empty")
	}
	return table, nil
}
