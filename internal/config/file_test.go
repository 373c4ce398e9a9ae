package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Trial.Preset != nil || cfg.UI.Tick != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
[trial]
preset = "dwell"
dwell = "650ms"
candidates = 6
table = "9s,6s"
advance-on-miss = false
seed = 42

[ui]
tick = "5ms"
report = true
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Trial.Preset == nil || *cfg.Trial.Preset != "dwell" {
		t.Fatalf("unexpected preset %v", cfg.Trial.Preset)
	}
	if cfg.Trial.Dwell == nil || *cfg.Trial.Dwell != "650ms" {
		t.Fatalf("unexpected dwell %v", cfg.Trial.Dwell)
	}
	if cfg.Trial.Candidates == nil || *cfg.Trial.Candidates != 6 {
		t.Fatalf("unexpected candidates %v", cfg.Trial.Candidates)
	}
	if cfg.Trial.AdvanceOnMiss == nil || *cfg.Trial.AdvanceOnMiss {
		t.Fatalf("expected advance-on-miss=false")
	}
	if cfg.Trial.Seed == nil || *cfg.Trial.Seed != 42 {
		t.Fatalf("unexpected seed %v", cfg.Trial.Seed)
	}
	if cfg.UI.Report == nil || !*cfg.UI.Report {
		t.Fatalf("expected report=true")
	}
	if cfg.Trial.Timeout != nil {
		t.Fatalf("unset keys must stay nil")
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
trial:
  preset: levels
  policy: stepped
  levels-per-block: 2
ui:
  log-level: debug
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Trial.Preset == nil || *cfg.Trial.Preset != "levels" {
		t.Fatalf("unexpected preset %v", cfg.Trial.Preset)
	}
	if cfg.Trial.LevelsPerBlock == nil || *cfg.Trial.LevelsPerBlock != 2 {
		t.Fatalf("unexpected levels-per-block %v", cfg.Trial.LevelsPerBlock)
	}
	if cfg.UI.LogLevel == nil || *cfg.UI.LogLevel != "debug" {
		t.Fatalf("unexpected log level %v", cfg.UI.LogLevel)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := writeFile(t, "config.toml", "[trial\npreset = 1")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "gyro", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/tmp/state", "gyro", "gyro.log") {
		t.Fatalf("unexpected log path %s", got)
	}
}
