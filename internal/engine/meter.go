package engine

import (
	"cluster_slots/internal/model"

	"github.com/shopspring/decimal"
)

// Collection is what one grid state contributed to the progress meter.
type Collection struct {
	Count    int
	Coins    int
	NewMeter int
}

type Meter struct {
	rules *Rules
}

func NewMeter(r *Rules) *Meter {
	return &Meter{rules: r}
}

// Collect counts progress tokens on g. Each token pays ProgressCoinMultiple x
// stake (house edge applied) and advances the meter by one up to the ceiling.
func (m *Meter) Collect(g *model.Grid, stake, meter int) Collection {
	n := g.Count(m.rules.ProgressSymbol)
	c := Collection{Count: n, NewMeter: meter}
	if n == 0 {
		return c
	}
	rate := decimal.NewFromFloat(m.rules.ProgressCoinMultiple).Mul(decimal.NewFromInt(int64(n)))
	c.Coins = m.rules.payout(stake, rate, 1)
	c.NewMeter = min(meter+n, m.rules.MeterCeiling)
	return c
}

// Unlock grants every milestone the meter has reached and that was not granted
// before. It returns the newly granted reward ids in milestone order.
func (m *Meter) Unlock(st *model.SessionState) []string {
	var granted []string
	for _, ms := range m.rules.Milestones {
		if st.ProgressMeter < ms.Threshold || st.Unlocked(ms.RewardID) {
			continue
		}
		st.UnlockedRewards = append(st.UnlockedRewards, ms.RewardID)
		granted = append(granted, ms.RewardID)
	}
	return granted
}
