package engine

import (
	"cluster_slots/internal/model"

	"github.com/shopspring/decimal"
)

// Evaluation is the outcome of one pass over a grid.
type Evaluation struct {
	TotalWin int
	Wins     []model.ClusterWin
}

type Evaluator struct {
	rules *Rules
	cat   *Catalog
}

func NewEvaluator(r *Rules, cat *Catalog) *Evaluator {
	return &Evaluator{rules: r, cat: cat}
}

var dirs = [4][2]int{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

// Evaluate finds every paying cluster. Kinds are scanned in catalog payable
// order; a cell that already belongs to a paying cluster is not reused, so the
// reported clusters are disjoint even when wilds border several kinds.
func (e *Evaluator) Evaluate(g *model.Grid, stake int) Evaluation {
	var ev Evaluation
	var claimed [model.GridHeight][model.GridWidth]bool

	for _, def := range e.cat.Payable() {
		var visited [model.GridHeight][model.GridWidth]bool
		for y := 0; y < model.GridHeight; y++ {
			for x := 0; x < model.GridWidth; x++ {
				if visited[y][x] || claimed[y][x] || g[y][x] != def.Kind {
					continue
				}
				cells, mult := e.flood(g, def.Kind, x, y, &visited, &claimed)
				if len(cells) < e.rules.MinClusterSize {
					continue
				}
				for _, c := range cells {
					claimed[c.Y][c.X] = true
				}
				win := model.ClusterWin{
					Kind:           def.Kind,
					Size:           len(cells),
					Cells:          cells,
					WildMultiplier: mult,
					Payout:         e.rules.payout(stake, e.rate(def, len(cells)), mult),
				}
				ev.Wins = append(ev.Wins, win)
				ev.TotalWin += win.Payout
			}
		}
	}
	return ev
}

// flood collects the 4-connected component of kind-or-wild cells around (x, y)
// and the largest wild multiplier inside it.
func (e *Evaluator) flood(g *model.Grid, kind model.Symbol, x, y int, visited, claimed *[model.GridHeight][model.GridWidth]bool) ([]model.Cell, int) {
	mult := 1
	var component []model.Cell
	queue := []model.Cell{{X: x, Y: y}}
	visited[y][x] = true

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		component = append(component, cur)
		if m := e.cat.WildMultiplier(g[cur.Y][cur.X]); m > mult {
			mult = m
		}
		for _, d := range dirs {
			nx, ny := cur.X+d[0], cur.Y+d[1]
			if nx < 0 || nx >= model.GridWidth || ny < 0 || ny >= model.GridHeight {
				continue
			}
			if visited[ny][nx] || claimed[ny][nx] {
				continue
			}
			sym := g[ny][nx]
			if sym != kind && !e.cat.IsWild(sym) {
				continue
			}
			visited[ny][nx] = true
			queue = append(queue, model.Cell{X: nx, Y: ny})
		}
	}
	return component, mult
}

func (e *Evaluator) rate(def SymbolDef, size int) decimal.Decimal {
	t := e.rules.TierThresholds
	switch {
	case size >= t[2]:
		return decimal.NewFromFloat(def.Tier5)
	case size >= t[1]:
		return decimal.NewFromFloat(def.Tier4)
	default:
		return decimal.NewFromFloat(def.Tier3)
	}
}
