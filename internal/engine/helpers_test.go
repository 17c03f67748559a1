package engine

import (
	"testing"

	"cluster_slots/internal/model"
	"cluster_slots/pkg/rng"
)

// scriptedSource hands out preset initial grids and refills vacated cells
// from a pattern with no two equal orthogonal neighbours.
type scriptedSource struct {
	grids  []model.Grid
	filler [4]model.Symbol
}

func (s *scriptedSource) Generate(free bool, _, _ int, pins []model.StickyWild) (model.Grid, error) {
	g := filled(s.filler)
	if len(s.grids) > 0 {
		g = s.grids[0]
		s.grids = s.grids[1:]
	}
	if free {
		Overlay(&g, pins)
	}
	return g, nil
}

func (s *scriptedSource) Refill(g *model.Grid, _ bool, _, _ int) error {
	for y := 0; y < model.GridHeight; y++ {
		for x := 0; x < model.GridWidth; x++ {
			if g[y][x] == model.Empty {
				g[y][x] = s.filler[(x+2*y)%4]
			}
		}
	}
	return nil
}

func filled(f [4]model.Symbol) model.Grid {
	var g model.Grid
	for y := 0; y < model.GridHeight; y++ {
		for x := 0; x < model.GridWidth; x++ {
			g[y][x] = f[(x+2*y)%4]
		}
	}
	return g
}

var quiet = [4]model.Symbol{Moon, Moth, Rose, Star}

func testRules() Rules {
	r := DefaultRules()
	for i := range r.Symbols {
		if r.Symbols[i].Kind == Heart {
			r.Symbols[i].Tier3 = 0.6
		}
	}
	return r
}

func newScripted(t *testing.T, rules Rules, src *scriptedSource) *Engine {
	t.Helper()
	e, err := New(rules, rng.NewSeeded(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.src = src
	e.resolver = NewResolver(e.eval, src, e.rules.MaxCascadeRounds)
	return e
}

func newSeeded(t *testing.T, seed uint64) *Engine {
	t.Helper()
	e, err := New(DefaultRules(), rng.NewSeeded(seed))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}
