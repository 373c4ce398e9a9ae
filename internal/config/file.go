// Package config provides configuration helpers and config file parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileConfig represents the configuration file.
type FileConfig struct {
	Trial TrialConfig `toml:"trial" yaml:"trial"`
	UI    UIConfig    `toml:"ui" yaml:"ui"`
}

// TrialConfig maps engine settings. Durations are Go duration strings.
type TrialConfig struct {
	Preset           *string `toml:"preset" yaml:"preset"`
	Alphabet         *string `toml:"alphabet" yaml:"alphabet"`
	AlphabetFile     *string `toml:"alphabet-file" yaml:"alphabet-file"`
	NoAmbiguous      *bool   `toml:"no-ambiguous" yaml:"no-ambiguous"`
	Candidates       *int    `toml:"candidates" yaml:"candidates"`
	Decoys           *string `toml:"decoys" yaml:"decoys"`
	Dwell            *string `toml:"dwell" yaml:"dwell"`
	Timeout          *string `toml:"timeout" yaml:"timeout"`
	Policy           *string `toml:"policy" yaml:"policy"`
	DecayStep        *string `toml:"decay-step" yaml:"decay-step"`
	DecayFloor       *string `toml:"decay-floor" yaml:"decay-floor"`
	Table            *string `toml:"table" yaml:"table"`
	Levels           *int    `toml:"levels" yaml:"levels"`
	LevelsPerBlock   *int    `toml:"levels-per-block" yaml:"levels-per-block"`
	TrialsPerLevel   *int    `toml:"trials-per-level" yaml:"trials-per-level"`
	AdvanceOnResolve *bool   `toml:"advance-on-resolve" yaml:"advance-on-resolve"`
	AdvanceOnMiss    *bool   `toml:"advance-on-miss" yaml:"advance-on-miss"`
	MissAsIncorrect  *bool   `toml:"miss-as-incorrect" yaml:"miss-as-incorrect"`
	OnTimeout        *string `toml:"on-timeout" yaml:"on-timeout"`
	Seed             *int64  `toml:"seed" yaml:"seed"`
}

// UIConfig maps presentation and logging settings.
type UIConfig struct {
	Tick     *string `toml:"tick" yaml:"tick"`
	Report   *bool   `toml:"report" yaml:"report"`
	LogLevel *string `toml:"log-level" yaml:"log-level"`
	LogFile  *string `toml:"log-file" yaml:"log-file"`
}

// LoadConfig reads a config file from the given path. Files ending in .yaml
// or .yml are YAML, everything else is TOML. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	}
	return cfg, nil
}
