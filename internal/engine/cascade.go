package engine

import (
	"cluster_slots/internal/model"
)

// gridSource is the part of the Grid Generator the resolver and engine need.
type gridSource interface {
	Generate(free bool, stake, meter int, pins []model.StickyWild) (model.Grid, error)
	Refill(grid *model.Grid, free bool, stake, meter int) error
}

// Mode is the live spin context read on every refill. The engine updates
// Meter and Pins between rounds.
type Mode struct {
	Free  bool
	Stake int
	Meter int
	Pins  []model.StickyWild
}

// Round is one evaluate-remove-refill step.
type Round struct {
	Index   int
	Grid    model.Grid // as evaluated
	Wins    []model.ClusterWin
	Payout  int
	Removed []model.Cell
	Next    model.Grid // after collapse, refill and sticky overlay
}

type Resolution struct {
	TotalWin int
	Rounds   []Round
	Final    model.Grid
}

type Resolver struct {
	eval      *Evaluator
	src       gridSource
	maxRounds int
}

func NewResolver(eval *Evaluator, src gridSource, maxRounds int) *Resolver {
	return &Resolver{eval: eval, src: src, maxRounds: maxRounds}
}

// Resolve cascades until a grid pays nothing or the round bound is reached.
// observe, if set, sees every refilled grid before it is evaluated.
func (r *Resolver) Resolve(g model.Grid, m *Mode, observe func(*model.Grid) error) (Resolution, error) {
	res := Resolution{Final: g}
	cur := g

	for i := 0; i < r.maxRounds; i++ {
		ev := r.eval.Evaluate(&cur, m.Stake)
		if ev.TotalWin == 0 {
			break
		}

		round := Round{Index: i, Grid: cur, Wins: ev.Wins, Payout: ev.TotalWin}
		round.Removed = removeWins(&cur, ev.Wins)
		var pins []model.StickyWild
		if m.Free {
			pins = m.Pins
		}
		collapse(&cur, pins)
		if err := r.src.Refill(&cur, m.Free, m.Stake, m.Meter); err != nil {
			return res, err
		}
		if m.Free {
			Overlay(&cur, m.Pins)
		}
		round.Next = cur

		res.Rounds = append(res.Rounds, round)
		res.TotalWin += ev.TotalWin
		res.Final = cur

		if observe != nil {
			if err := observe(&cur); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

// removeWins empties every winning cell and returns them.
func removeWins(g *model.Grid, wins []model.ClusterWin) []model.Cell {
	var removed []model.Cell
	for _, w := range wins {
		for _, c := range w.Cells {
			g[c.Y][c.X] = model.Empty
			removed = append(removed, c)
		}
	}
	return removed
}

// collapse compacts each column toward the bottom, keeping order; vacated
// cells end up at the top. Pinned cells never move: the symbols above a pin
// fall past it into the free cells below.
func collapse(g *model.Grid, pins []model.StickyWild) {
	var fixed [model.GridHeight][model.GridWidth]bool
	for _, p := range pins {
		if p.X < 0 || p.X >= model.GridWidth || p.Y < 0 || p.Y >= model.GridHeight {
			continue
		}
		fixed[p.Y][p.X] = true
		g[p.Y][p.X] = p.Kind
	}

	for x := 0; x < model.GridWidth; x++ {
		stack := make([]model.Symbol, 0, model.GridHeight)
		for y := 0; y < model.GridHeight; y++ {
			if !fixed[y][x] && g[y][x] != model.Empty {
				stack = append(stack, g[y][x])
			}
		}
		i := len(stack) - 1
		for y := model.GridHeight - 1; y >= 0; y-- {
			if fixed[y][x] {
				continue
			}
			if i >= 0 {
				g[y][x] = stack[i]
				i--
			} else {
				g[y][x] = model.Empty
			}
		}
	}
}
