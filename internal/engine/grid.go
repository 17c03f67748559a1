package engine

import (
	"cluster_slots/internal/model"
)

// Generator fills grids cell by cell from the active weight table.
type Generator struct {
	rules   *Rules
	cat     *Catalog
	sampler *Sampler
}

func NewGenerator(r *Rules, cat *Catalog, sampler *Sampler) *Generator {
	return &Generator{rules: r, cat: cat, sampler: sampler}
}

// Table returns the weights for the active mode. Only the progress token is
// modified: a clamped stake factor and ratio^meter, which falls as the meter fills.
func (g *Generator) Table(free bool, stake, meter int) Table {
	defs := g.cat.Defs()
	t := Table{
		Kinds:   make([]model.Symbol, len(defs)),
		Weights: make([]float64, len(defs)),
	}
	for i, d := range defs {
		w := d.WeightBase
		if free {
			w = d.WeightFree
		}
		if d.Kind == g.rules.ProgressSymbol {
			w *= g.rules.stakeFactor(stake) * g.rules.diminishing(meter)
		}
		t.Kinds[i] = d.Kind
		t.Weights[i] = w
	}
	return t
}

// Generate samples every cell independently, then pins sticky wilds in free spins.
func (g *Generator) Generate(free bool, stake, meter int, pins []model.StickyWild) (model.Grid, error) {
	var grid model.Grid
	if err := g.Refill(&grid, free, stake, meter); err != nil {
		return model.Grid{}, err
	}
	if free {
		Overlay(&grid, pins)
	}
	return grid, nil
}

// Refill samples every empty cell.
func (g *Generator) Refill(grid *model.Grid, free bool, stake, meter int) error {
	t := g.Table(free, stake, meter)
	for y := 0; y < model.GridHeight; y++ {
		for x := 0; x < model.GridWidth; x++ {
			if grid[y][x] != model.Empty {
				continue
			}
			sym, err := g.sampler.Pick(t)
			if err != nil {
				return err
			}
			grid[y][x] = sym
		}
	}
	return nil
}

// Overlay writes every pinned wild over whatever was sampled at its cell.
func Overlay(grid *model.Grid, pins []model.StickyWild) {
	for _, p := range pins {
		if p.X < 0 || p.X >= model.GridWidth || p.Y < 0 || p.Y >= model.GridHeight {
			continue
		}
		grid[p.Y][p.X] = p.Kind
	}
}
