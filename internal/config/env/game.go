package env

import (
	"errors"
	"fmt"
	"os"

	"cluster_slots/internal/config"
	"cluster_slots/internal/engine"
	"cluster_slots/internal/model"

	"gopkg.in/yaml.v3"
)

const (
	gameConfigEnvName = "GAME_CONFIG"

	defaultGameConfigPath = "configs/game.yaml"
)

type rawSymbol struct {
	Kind           string  `yaml:"kind"`
	WeightBase     float64 `yaml:"weight_base"`
	WeightFree     float64 `yaml:"weight_free"`
	Tier3          float64 `yaml:"tier3"`
	Tier4          float64 `yaml:"tier4"`
	Tier5          float64 `yaml:"tier5"`
	WildMultiplier int     `yaml:"wild_multiplier,omitempty"`
}

type rawMilestone struct {
	Threshold int    `yaml:"threshold"`
	Reward    string `yaml:"reward"`
}

type rawStakeFactor struct {
	Pivot *int     `yaml:"pivot"`
	Slope *float64 `yaml:"slope"`
	Min   *float64 `yaml:"min"`
	Max   *float64 `yaml:"max"`
}

// rawRules mirrors engine.Rules; nil fields keep the default.
type rawRules struct {
	Symbols []rawSymbol `yaml:"symbols,omitempty"`

	MinStake     *int `yaml:"min_stake"`
	MaxStake     *int `yaml:"max_stake"`
	DefaultStake *int `yaml:"default_stake"`

	MinClusterSize   *int     `yaml:"min_cluster_size"`
	TierThresholds   []int    `yaml:"tier_thresholds,omitempty"`
	HouseEdge        *float64 `yaml:"house_edge"`
	MaxCascadeRounds *int     `yaml:"max_cascade_rounds"`

	ProgressSymbol       *string         `yaml:"progress_symbol"`
	ProgressCoinMultiple *float64        `yaml:"progress_coin_multiple"`
	MeterCeiling         *int            `yaml:"meter_ceiling"`
	DiminishingRatio     *float64        `yaml:"diminishing_ratio"`
	StakeFactor          *rawStakeFactor `yaml:"stake_factor,omitempty"`
	Milestones           []rawMilestone  `yaml:"milestones,omitempty"`

	TriggerSymbol           *string `yaml:"trigger_symbol"`
	TriggerThreshold        *int    `yaml:"trigger_threshold"`
	FreeSpinsGrant          *int    `yaml:"free_spins_grant"`
	RetriggerGrant          *int    `yaml:"retrigger_grant"`
	ClearStickyOnSessionEnd *bool   `yaml:"clear_sticky_on_session_end"`

	StartingCurrency *int `yaml:"starting_currency"`
}

type gameConfig struct {
	rules engine.Rules
}

// GameConfigPath returns GAME_CONFIG or the default rules file location.
func GameConfigPath() string {
	if p := os.Getenv(gameConfigEnvName); len(p) > 0 {
		return p
	}
	return defaultGameConfigPath
}

// NewGameConfigFromYAML reads the rules file at path over engine.DefaultRules.
// A missing file yields the defaults; the merged rules are validated.
func NewGameConfigFromYAML(path string) (config.GameConfig, error) {
	rules := engine.DefaultRules()

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read game config: %w", err)
	default:
		var raw rawRules
		if err := yaml.Unmarshal(b, &raw); err != nil {
			return nil, fmt.Errorf("parse game config: %w", err)
		}
		if err := mergeRules(&rules, raw); err != nil {
			return nil, err
		}
	}

	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &gameConfig{rules: rules}, nil
}

func (cfg *gameConfig) Rules() engine.Rules {
	return cfg.rules
}

func mergeRules(out *engine.Rules, b rawRules) error {
	if len(b.Symbols) > 0 {
		out.Symbols = make([]engine.SymbolDef, len(b.Symbols))
		for i, s := range b.Symbols {
			out.Symbols[i] = engine.SymbolDef{
				Kind:           model.Symbol(s.Kind),
				WeightBase:     s.WeightBase,
				WeightFree:     s.WeightFree,
				Tier3:          s.Tier3,
				Tier4:          s.Tier4,
				Tier5:          s.Tier5,
				WildMultiplier: s.WildMultiplier,
			}
		}
	}

	setInt(&out.MinStake, b.MinStake)
	setInt(&out.MaxStake, b.MaxStake)
	setInt(&out.DefaultStake, b.DefaultStake)
	setInt(&out.MinClusterSize, b.MinClusterSize)
	if len(b.TierThresholds) > 0 {
		if len(b.TierThresholds) != 3 {
			return fmt.Errorf("tier_thresholds: want 3 values, got %d", len(b.TierThresholds))
		}
		copy(out.TierThresholds[:], b.TierThresholds)
	}
	setFloat(&out.HouseEdge, b.HouseEdge)
	setInt(&out.MaxCascadeRounds, b.MaxCascadeRounds)

	if b.ProgressSymbol != nil {
		out.ProgressSymbol = model.Symbol(*b.ProgressSymbol)
	}
	setFloat(&out.ProgressCoinMultiple, b.ProgressCoinMultiple)
	setInt(&out.MeterCeiling, b.MeterCeiling)
	setFloat(&out.DiminishingRatio, b.DiminishingRatio)
	if sf := b.StakeFactor; sf != nil {
		setInt(&out.StakeFactor.Pivot, sf.Pivot)
		setFloat(&out.StakeFactor.Slope, sf.Slope)
		setFloat(&out.StakeFactor.Min, sf.Min)
		setFloat(&out.StakeFactor.Max, sf.Max)
	}
	if len(b.Milestones) > 0 {
		out.Milestones = make([]engine.Milestone, len(b.Milestones))
		for i, m := range b.Milestones {
			out.Milestones[i] = engine.Milestone{Threshold: m.Threshold, RewardID: m.Reward}
		}
	}

	if b.TriggerSymbol != nil {
		out.TriggerSymbol = model.Symbol(*b.TriggerSymbol)
	}
	setInt(&out.TriggerThreshold, b.TriggerThreshold)
	setInt(&out.FreeSpinsGrant, b.FreeSpinsGrant)
	setInt(&out.RetriggerGrant, b.RetriggerGrant)
	if b.ClearStickyOnSessionEnd != nil {
		out.ClearStickyOnSessionEnd = *b.ClearStickyOnSessionEnd
	}
	setInt(&out.StartingCurrency, b.StartingCurrency)
	return nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
