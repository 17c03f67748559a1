package engine

import (
	"errors"
	"testing"

	"cluster_slots/internal/model"
)

func TestDefaultRulesValid(t *testing.T) {
	r := DefaultRules()
	if err := r.Validate(); err != nil {
		t.Fatalf("default rules invalid: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		mod  func(r *Rules)
	}{
		{"stake bounds", func(r *Rules) { r.MinStake, r.MaxStake = 10, 5 }},
		{"house edge", func(r *Rules) { r.HouseEdge = 1.1 }},
		{"tiers", func(r *Rules) { r.TierThresholds = [3]int{9, 7, 5} }},
		{"milestone above ceiling", func(r *Rules) { r.Milestones = append(r.Milestones, Milestone{Threshold: 11, RewardID: "x"}) }},
		{"missing trigger", func(r *Rules) { r.TriggerSymbol = "NOPE" }},
		{"ratio", func(r *Rules) { r.DiminishingRatio = 1 }},
	}
	for _, tc := range cases {
		r := DefaultRules()
		tc.mod(&r)
		if err := r.Validate(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestValidateZeroWeights(t *testing.T) {
	r := DefaultRules()
	for i := range r.Symbols {
		r.Symbols[i].WeightFree = 0
	}
	err := r.Validate()
	if !errors.Is(err, model.ErrInvalidWeights) {
		t.Fatalf("expected ErrInvalidWeights, got %v", err)
	}
}

func TestPayoutFloorsOnce(t *testing.T) {
	r := DefaultRules()
	cat := NewCatalog(&r)
	moth, _ := cat.Def(Moth)
	ev := NewEvaluator(&r, cat)
	got := r.payout(10, ev.rate(moth, 5), 1)
	if got != 4 {
		t.Fatalf("payout: got %d, want 4", got)
	}
}
