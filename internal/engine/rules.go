package engine

import (
	"fmt"
	"math"
	"strings"

	"cluster_slots/internal/model"

	"github.com/shopspring/decimal"
)

// Milestone permanently unlocks RewardID once the meter reaches Threshold.
type Milestone struct {
	Threshold int
	RewardID  string
}

// StakeFactor scales the progress token weight linearly with stake, clamped
// to [Min, Max].
type StakeFactor struct {
	Pivot int
	Slope float64
	Min   float64
	Max   float64
}

// Rules is the whole balancing surface of the game. Nothing in the engine
// hardcodes a value that lives here.
type Rules struct {
	Symbols []SymbolDef

	MinStake int
	MaxStake int

	MinClusterSize int
	// cluster sizes at which the tier-3, tier-4 and tier-5 rates start
	TierThresholds [3]int
	HouseEdge      float64

	MaxCascadeRounds int

	ProgressSymbol       model.Symbol
	ProgressCoinMultiple float64
	MeterCeiling         int
	DiminishingRatio     float64
	StakeFactor          StakeFactor
	Milestones           []Milestone

	TriggerSymbol           model.Symbol
	TriggerThreshold        int
	FreeSpinsGrant          int
	RetriggerGrant          int
	ClearStickyOnSessionEnd bool

	StartingCurrency int
	DefaultStake     int
}

func DefaultRules() Rules {
	return Rules{
		Symbols:              DefaultCatalog(),
		MinStake:             1,
		MaxStake:             50,
		MinClusterSize:       5,
		TierThresholds:       [3]int{5, 7, 9},
		HouseEdge:            0.92,
		MaxCascadeRounds:     12,
		ProgressSymbol:       Light,
		ProgressCoinMultiple: 3,
		MeterCeiling:         10,
		DiminishingRatio:     0.82,
		StakeFactor:          StakeFactor{Pivot: 10, Slope: 0.005, Min: 0.99, Max: 1.18},
		Milestones: []Milestone{
			{Threshold: 2, RewardID: "gersberg"},
			{Threshold: 4, RewardID: "garmisch"},
			{Threshold: 6, RewardID: "goerlitz"},
			{Threshold: 8, RewardID: "gruenheide"},
			{Threshold: 10, RewardID: "london"},
		},
		TriggerSymbol:           Night,
		TriggerThreshold:        4,
		FreeSpinsGrant:          8,
		RetriggerGrant:          4,
		ClearStickyOnSessionEnd: true,
		StartingCurrency:        1000,
		DefaultStake:            10,
	}
}

// Validate checks the semantic constraints of a rule set.
func (r *Rules) Validate() error {
	var errs []string

	if r.MinStake < 1 || r.MaxStake < r.MinStake {
		errs = append(errs, "stake bounds must satisfy 1 <= min <= max")
	}
	if r.DefaultStake < r.MinStake || r.DefaultStake > r.MaxStake {
		errs = append(errs, "default stake must lie within stake bounds")
	}
	if r.MinClusterSize < 1 {
		errs = append(errs, "min cluster size must be >= 1")
	}
	t := r.TierThresholds
	if !(t[0] <= t[1] && t[1] <= t[2]) {
		errs = append(errs, "tier thresholds must be ascending")
	}
	if !(r.HouseEdge > 0 && r.HouseEdge < 1) {
		errs = append(errs, "house edge must be in (0,1)")
	}
	if r.MaxCascadeRounds < 1 {
		errs = append(errs, "max cascade rounds must be >= 1")
	}
	if r.MeterCeiling < 1 {
		errs = append(errs, "meter ceiling must be >= 1")
	}
	if !(r.DiminishingRatio > 0 && r.DiminishingRatio < 1) {
		errs = append(errs, "diminishing ratio must be in (0,1)")
	}
	if r.StakeFactor.Min <= 0 || r.StakeFactor.Max < r.StakeFactor.Min {
		errs = append(errs, "stake factor band must satisfy 0 < min <= max")
	}
	if r.ProgressCoinMultiple < 0 {
		errs = append(errs, "progress coin multiple must be >= 0")
	}
	if r.TriggerThreshold < 1 {
		errs = append(errs, "trigger threshold must be >= 1")
	}
	if r.FreeSpinsGrant < 1 || r.RetriggerGrant < 0 {
		errs = append(errs, "free spins grant must be >= 1 and retrigger grant >= 0")
	}
	if r.StartingCurrency < 0 {
		errs = append(errs, "starting currency must be >= 0")
	}
	prev := 0
	for i, m := range r.Milestones {
		if m.Threshold <= prev || m.Threshold > r.MeterCeiling {
			errs = append(errs, fmt.Sprintf("milestones[%d] threshold must be ascending and <= meter ceiling", i))
		}
		if m.RewardID == "" {
			errs = append(errs, fmt.Sprintf("milestones[%d] needs a reward id", i))
		}
		prev = m.Threshold
	}

	seen := make(map[model.Symbol]bool, len(r.Symbols))
	for i, s := range r.Symbols {
		if s.Kind == model.Empty {
			errs = append(errs, fmt.Sprintf("symbols[%d] has no kind", i))
		}
		if seen[s.Kind] {
			errs = append(errs, fmt.Sprintf("symbols[%d] duplicates kind %s", i, s.Kind))
		}
		seen[s.Kind] = true
		if s.WeightBase < 0 || s.WeightFree < 0 || math.IsNaN(s.WeightBase) || math.IsNaN(s.WeightFree) {
			errs = append(errs, fmt.Sprintf("symbols[%d] weights must be >= 0", i))
		}
		if s.WildMultiplier < 0 {
			errs = append(errs, fmt.Sprintf("symbols[%d] wild multiplier must be >= 0", i))
		}
	}
	if !seen[r.ProgressSymbol] {
		errs = append(errs, "progress symbol missing from catalog")
	}
	if !seen[r.TriggerSymbol] {
		errs = append(errs, "trigger symbol missing from catalog")
	}

	if len(errs) > 0 {
		return fmt.Errorf("rules validation failed: %s", strings.Join(errs, "; "))
	}

	base, free := 0.0, 0.0
	for _, s := range r.Symbols {
		base += s.WeightBase
		free += s.WeightFree
	}
	if base <= 0 || free <= 0 {
		return fmt.Errorf("rules validation failed: %w", model.ErrInvalidWeights)
	}
	return nil
}

// stakeFactor is the mild stake-linear boost on the progress token weight.
func (r *Rules) stakeFactor(stake int) float64 {
	f := 1 + float64(stake-r.StakeFactor.Pivot)*r.StakeFactor.Slope
	return math.Min(r.StakeFactor.Max, math.Max(r.StakeFactor.Min, f))
}

// diminishing suppresses further progress tokens as the meter fills.
func (r *Rules) diminishing(meter int) float64 {
	return math.Pow(r.DiminishingRatio, float64(meter))
}

// payout is the single point where the house edge is applied:
// floor(stake * rate * multiplier * houseEdge), truncated toward zero.
func (r *Rules) payout(stake int, rate decimal.Decimal, multiplier int) int {
	return int(decimal.NewFromInt(int64(stake)).
		Mul(rate).
		Mul(decimal.NewFromInt(int64(multiplier))).
		Mul(decimal.NewFromFloat(r.HouseEdge)).
		Truncate(0).
		IntPart())
}
