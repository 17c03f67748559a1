package engine

import (
	"sort"

	"cluster_slots/internal/model"
)

const (
	Heart model.Symbol = "HEART"
	Moon  model.Symbol = "MOON"
	Moth  model.Symbol = "MOTH"
	Rose  model.Symbol = "ROSE"
	Star  model.Symbol = "STAR"
	Night model.Symbol = "NIGHT"
	Light model.Symbol = "LIGHT"
	Wild1 model.Symbol = "WILD1"
	Wild2 model.Symbol = "WILD2"
	Wild3 model.Symbol = "WILD3"
	Wild4 model.Symbol = "WILD4"
)

// SymbolDef describes one symbol kind. WildMultiplier > 0 marks a wild.
type SymbolDef struct {
	Kind           model.Symbol
	WeightBase     float64
	WeightFree     float64
	Tier3          float64
	Tier4          float64
	Tier5          float64
	WildMultiplier int
}

func (d SymbolDef) IsWild() bool { return d.WildMultiplier > 0 }

func DefaultCatalog() []SymbolDef {
	return []SymbolDef{
		{Kind: Heart, WeightBase: 18, WeightFree: 18, Tier3: 0.4, Tier4: 0.9, Tier5: 2.0},
		{Kind: Moon, WeightBase: 16, WeightFree: 16, Tier3: 0.35, Tier4: 0.8, Tier5: 1.8},
		{Kind: Moth, WeightBase: 14, WeightFree: 14, Tier3: 0.5, Tier4: 1.2, Tier5: 2.6},
		{Kind: Rose, WeightBase: 10, WeightFree: 10, Tier3: 0.7, Tier4: 1.6, Tier5: 3.4},
		{Kind: Star, WeightBase: 10, WeightFree: 10, Tier3: 0.75, Tier4: 1.7, Tier5: 3.6},
		{Kind: Night, WeightBase: 9, WeightFree: 9, Tier3: 0.6, Tier4: 1.4, Tier5: 3.0},
		{Kind: Light, WeightBase: 4, WeightFree: 12},
		{Kind: Wild1, WeightBase: 1.5, WeightFree: 2.4, WildMultiplier: 1},
		{Kind: Wild2, WeightBase: 0.9, WeightFree: 1.44, WildMultiplier: 2},
		{Kind: Wild3, WeightBase: 0.4, WeightFree: 0.64, WildMultiplier: 3},
		{Kind: Wild4, WeightBase: 0.2, WeightFree: 0.32, WildMultiplier: 4},
	}
}

// Catalog indexes the symbol definitions of a rule set.
type Catalog struct {
	defs    []SymbolDef
	byKind  map[model.Symbol]SymbolDef
	payable []SymbolDef
}

func NewCatalog(r *Rules) *Catalog {
	c := &Catalog{
		defs:   append([]SymbolDef(nil), r.Symbols...),
		byKind: make(map[model.Symbol]SymbolDef, len(r.Symbols)),
	}
	for _, d := range c.defs {
		c.byKind[d.Kind] = d
		if d.IsWild() || d.Kind == r.ProgressSymbol {
			continue
		}
		c.payable = append(c.payable, d)
	}
	// richest kinds claim shared wilds first
	sort.SliceStable(c.payable, func(i, j int) bool {
		return c.payable[i].Tier5 > c.payable[j].Tier5
	})
	return c
}

func (c *Catalog) Defs() []SymbolDef { return c.defs }

// Payable returns the kinds that may seed a cluster, in evaluation order.
func (c *Catalog) Payable() []SymbolDef { return c.payable }

func (c *Catalog) Def(kind model.Symbol) (SymbolDef, bool) {
	d, ok := c.byKind[kind]
	return d, ok
}

func (c *Catalog) IsWild(kind model.Symbol) bool {
	return c.byKind[kind].IsWild()
}

// WildMultiplier returns the multiplier of a wild kind, 1 for anything else.
func (c *Catalog) WildMultiplier(kind model.Symbol) int {
	if d := c.byKind[kind]; d.IsWild() {
		return d.WildMultiplier
	}
	return 1
}
