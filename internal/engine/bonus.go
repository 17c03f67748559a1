package engine

import (
	"cluster_slots/internal/model"
)

// bonusSpin tracks what the bonus machine already did during one spin.
type bonusSpin struct {
	free        bool
	triggered   bool
	retriggered bool
}

func (b *bonusSpin) transition() model.BonusTransition {
	switch {
	case b.triggered:
		return model.BonusTriggered
	case b.retriggered:
		return model.BonusRetriggered
	}
	return model.BonusNone
}

// Bonus drives BASE <-> FREE_SPINS(n) and sticky wild accumulation.
type Bonus struct {
	rules *Rules
	cat   *Catalog
}

func NewBonus(r *Rules, cat *Catalog) *Bonus {
	return &Bonus{rules: r, cat: cat}
}

// Consume opens a spin. Inside a bonus session it spends one free spin and
// reports true; in BASE it changes nothing.
func (b *Bonus) Consume(st *model.SessionState) bool {
	if !st.InBonus() {
		return false
	}
	st.FreeSpinsRemaining--
	return true
}

// Observe applies one grid state of the current spin: free spins pin every
// unpinned wild, then the trigger symbol count is checked. A base spin
// triggers at most once and clears the sticky set; a free spin retriggers at
// most once and leaves the sticky set alone. It returns the wilds pinned here.
func (b *Bonus) Observe(st *model.SessionState, g *model.Grid, sp *bonusSpin) []model.StickyWild {
	var pinned []model.StickyWild
	if sp.free {
		for y := 0; y < model.GridHeight; y++ {
			for x := 0; x < model.GridWidth; x++ {
				sym := g[y][x]
				if !b.cat.IsWild(sym) {
					continue
				}
				if _, ok := st.PinnedAt(x, y); ok {
					continue
				}
				p := model.StickyWild{X: x, Y: y, Kind: sym}
				st.StickyWilds = append(st.StickyWilds, p)
				pinned = append(pinned, p)
			}
		}
	}

	if g.Count(b.rules.TriggerSymbol) < b.rules.TriggerThreshold {
		return pinned
	}
	switch {
	case !sp.free && !sp.triggered:
		st.FreeSpinsRemaining = b.rules.FreeSpinsGrant
		st.StickyWilds = nil
		sp.triggered = true
	case sp.free && !sp.retriggered:
		st.FreeSpinsRemaining += b.rules.RetriggerGrant
		sp.retriggered = true
	}
	return pinned
}

// Finish closes the spin. A free spin that leaves the counter at zero ends the
// session; its sticky wilds stop being overlaid and are dropped when
// ClearStickyOnSessionEnd is set, otherwise they stay dormant until the next trigger.
func (b *Bonus) Finish(st *model.SessionState, sp *bonusSpin) model.BonusTransition {
	if sp.free && st.FreeSpinsRemaining == 0 {
		if b.rules.ClearStickyOnSessionEnd {
			st.StickyWilds = nil
		}
		return model.BonusEnded
	}
	return sp.transition()
}
