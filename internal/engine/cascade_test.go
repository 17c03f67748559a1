package engine

import (
	"testing"

	"cluster_slots/internal/model"
	"cluster_slots/pkg/rng"
)

func TestCollapseKeepsColumnOrder(t *testing.T) {
	var g model.Grid
	col := []model.Symbol{Heart, model.Empty, Moon, model.Empty, Star}
	for y, s := range col {
		g[y][1] = s
	}
	collapse(&g, nil)
	want := []model.Symbol{model.Empty, model.Empty, Heart, Moon, Star}
	for y, s := range want {
		if g[y][1] != s {
			t.Fatalf("row %d: got %q, want %q", y, g[y][1], s)
		}
	}
}

func TestCollapseHoldsPinnedCells(t *testing.T) {
	var g model.Grid
	col := []model.Symbol{Moon, Wild3, Star, model.Empty, model.Empty}
	for y, s := range col {
		g[y][0] = s
	}
	collapse(&g, []model.StickyWild{{X: 0, Y: 1, Kind: Wild3}})
	want := []model.Symbol{model.Empty, Wild3, model.Empty, Moon, Star}
	for y, s := range want {
		if g[y][0] != s {
			t.Fatalf("row %d: got %q, want %q", y, g[y][0], s)
		}
	}
}

func TestResolveSingleRound(t *testing.T) {
	r := testRules()
	cat := NewCatalog(&r)
	src := &scriptedSource{filler: quiet}
	res := NewResolver(NewEvaluator(&r, cat), src, r.MaxCascadeRounds)

	g := filled(quiet)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			g[y][x] = Heart
		}
	}
	out, err := res.Resolve(g, &Mode{Stake: 10}, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(out.Rounds) != 1 || out.TotalWin != 5 {
		t.Fatalf("got %d rounds total %d, want 1 round total 5", len(out.Rounds), out.TotalWin)
	}
	if len(out.Rounds[0].Removed) != 6 {
		t.Fatalf("removed %d cells, want 6", len(out.Rounds[0].Removed))
	}
	if out.Final != filled(quiet) {
		t.Fatalf("unexpected final grid %v", out.Final)
	}
}

func TestResolveRespectsRoundBound(t *testing.T) {
	r := testRules()
	r.MaxCascadeRounds = 3
	cat := NewCatalog(&r)
	// refill with hearts only: every round pays again
	src := &scriptedSource{filler: [4]model.Symbol{Heart, Heart, Heart, Heart}}
	res := NewResolver(NewEvaluator(&r, cat), src, r.MaxCascadeRounds)

	out, err := res.Resolve(filled(src.filler), &Mode{Stake: 10}, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(out.Rounds) != 3 {
		t.Fatalf("rounds: got %d, want 3", len(out.Rounds))
	}
	if !out.Final.Full() {
		t.Fatalf("final grid has empty cells")
	}
}

func TestResolveTerminatesOnRandomGrids(t *testing.T) {
	r := DefaultRules()
	cat := NewCatalog(&r)
	gen := NewGenerator(&r, cat, NewSampler(rng.NewSeeded(21)))
	res := NewResolver(NewEvaluator(&r, cat), gen, r.MaxCascadeRounds)

	for i := 0; i < 500; i++ {
		free := i%2 == 1
		pins := []model.StickyWild{{X: 4, Y: 0, Kind: Wild2}}
		g, err := gen.Generate(free, 10, 0, pins)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		out, err := res.Resolve(g, &Mode{Free: free, Stake: 10, Pins: pins}, nil)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if len(out.Rounds) > r.MaxCascadeRounds {
			t.Fatalf("ran %d rounds", len(out.Rounds))
		}
		if !out.Final.Full() {
			t.Fatalf("final grid %d has empty cells", i)
		}
		if free && out.Final[0][4] != Wild2 {
			t.Fatalf("sticky wild lost after cascade")
		}
		sum := 0
		for _, rd := range out.Rounds {
			sum += rd.Payout
		}
		if sum != out.TotalWin {
			t.Fatalf("total %d != sum of rounds %d", out.TotalWin, sum)
		}
	}
}

func TestResolveObservesEveryRefill(t *testing.T) {
	r := testRules()
	r.MaxCascadeRounds = 4
	cat := NewCatalog(&r)
	src := &scriptedSource{filler: [4]model.Symbol{Heart, Heart, Heart, Heart}}
	res := NewResolver(NewEvaluator(&r, cat), src, r.MaxCascadeRounds)

	seen := 0
	_, err := res.Resolve(filled(src.filler), &Mode{Stake: 10}, func(*model.Grid) error {
		seen++
		return nil
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if seen != 4 {
		t.Fatalf("observed %d grids, want 4", seen)
	}
}
