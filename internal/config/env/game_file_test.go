package env

import (
	"testing"

	"cluster_slots/internal/engine"
)

// the shipped rules file must describe the built-in defaults
func TestShippedGameConfigMatchesDefaults(t *testing.T) {
	cfg, err := NewGameConfigFromYAML("../../../configs/game.yaml")
	if err != nil {
		t.Fatalf("NewGameConfigFromYAML: %v", err)
	}
	got, want := cfg.Rules(), engine.DefaultRules()
	if len(got.Symbols) != len(want.Symbols) {
		t.Fatalf("symbols: got %d, want %d", len(got.Symbols), len(want.Symbols))
	}
	for i := range want.Symbols {
		if got.Symbols[i] != want.Symbols[i] {
			t.Fatalf("symbol %d: got %+v, want %+v", i, got.Symbols[i], want.Symbols[i])
		}
	}
	if got.HouseEdge != want.HouseEdge || got.TierThresholds != want.TierThresholds ||
		got.StakeFactor != want.StakeFactor || got.FreeSpinsGrant != want.FreeSpinsGrant {
		t.Fatalf("rules differ: %+v", got)
	}
	for i := range want.Milestones {
		if got.Milestones[i] != want.Milestones[i] {
			t.Fatalf("milestone %d: got %+v, want %+v", i, got.Milestones[i], want.Milestones[i])
		}
	}
}
