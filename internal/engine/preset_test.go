package engine

import (
	"testing"

	"github.com/verte-zerg/gyro/internal/generator"
)

func TestPresetsAreValid(t *testing.T) {
	for _, p := range Presets() {
		t.Run(p.Name, func(t *testing.T) {
			cfg, err := LookupPreset(p.Name)
			if err != nil {
				t.Fatalf("lookup: %v", err)
			}
			if _, err := New(cfg, generator.NewSource(3)); err != nil {
				t.Fatalf("preset %s invalid: %v", p.Name, err)
			}
		})
	}
}

func TestLookupPresetDefaultsAndCopies(t *testing.T) {
	cfg, err := LookupPreset("")
	if err != nil {
		t.Fatalf("lookup default: %v", err)
	}
	if cfg.LevelBound != 30 || cfg.LevelsPerBlock != 10 {
		t.Fatalf("default preset should be blocks, got %+v", cfg)
	}
	cfg.Policy.(Stepped).Table[0] = 0
	again, _ := LookupPreset("blocks")
	if again.Policy.(Stepped).Table[0] == 0 {
		t.Fatalf("preset table shared between lookups")
	}
	if _, err := LookupPreset("nope"); err == nil {
		t.Fatalf("expected error for unknown preset")
	}
}
