package engine

import (
	"errors"
	"math"
	"sort"

	"cluster_slots/internal/model"
)

// Stats summarizes a sample of per-spin wins.
type Stats struct {
	Mean   float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
	Max    int
}

// Report is the outcome of a Monte Carlo run.
type Report struct {
	Spins      int
	PaidSpins  int
	FreeSpins  int
	Wagered    int
	Returned   int
	RTP        float64
	HitRate    float64
	Triggers   int
	Retriggers int
	Cascades   int
	MeterFills int
	Win        Stats
}

// Simulate plays spins paid spins at stake on a fresh session, playing out
// every free spin they award, and measures the return. Progression is reset
// each time the meter fills so the token side-payout keeps contributing.
func Simulate(e *Engine, spins, stake int) (Report, error) {
	var rep Report
	if spins <= 0 {
		return rep, nil
	}
	if err := e.ValidateStake(stake); err != nil {
		return rep, err
	}

	st := e.NewState()
	st.Stake = stake
	wins := make([]int, 0, spins)
	hits := 0

	for rep.PaidSpins < spins || st.InBonus() {
		if !st.InBonus() {
			// keep the bankroll out of the measurement
			st.Currency = math.MaxInt32
		}
		res, err := e.Play(st, model.SpinRequest{Stake: stake})
		if err != nil {
			if errors.Is(err, model.ErrInsufficientFunds) {
				st.Currency = math.MaxInt32
				continue
			}
			return rep, err
		}
		st = res.State
		sum := res.Summary

		rep.Spins++
		if sum.FreeSpin {
			rep.FreeSpins++
		} else {
			rep.PaidSpins++
		}
		rep.Wagered += sum.StakeDeducted
		rep.Returned += sum.TotalWin
		if sum.TotalWin > 0 {
			hits++
		}
		for _, r := range res.Rounds {
			if r.Payout > 0 {
				rep.Cascades++
			}
		}
		switch sum.BonusTransition {
		case model.BonusTriggered:
			rep.Triggers++
		case model.BonusRetriggered:
			rep.Retriggers++
		}
		if st.ProgressMeter >= e.rules.MeterCeiling {
			rep.MeterFills++
			// drop progression only; a running bonus plays out
			st.ProgressMeter = 0
			st.UnlockedRewards = nil
		}
		wins = append(wins, sum.TotalWin)
	}

	if rep.Wagered > 0 {
		rep.RTP = float64(rep.Returned) / float64(rep.Wagered)
	}
	rep.HitRate = float64(hits) / float64(rep.Spins)
	rep.Win = calcStats(wins)
	return rep, nil
}

// calcStats computes mean, population stddev and interpolated percentiles.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 {
			return float64(cp[0])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Mean:   mean,
		StdDev: math.Sqrt(acc / float64(n)),
		P50:    percentile(0.50),
		P90:    percentile(0.90),
		P99:    percentile(0.99),
		Max:    cp[n-1],
	}
}
