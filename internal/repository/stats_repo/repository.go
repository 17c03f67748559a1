package stats_repo

import (
	"sync"

	"cluster_slots/internal/model"
	repoModel "cluster_slots/internal/repository/stats_repo/model"
)

const defaultWindowSize = 500

// StateRepo keeps the observed RTP over all spins and over a sliding window
// of the most recent ones. It only observes: payouts are never tuned from here.
type StateRepo struct {
	mtx   sync.RWMutex
	state repoModel.SlotState
}

func NewStatsRepository(windowSize int) *StateRepo {
	if windowSize < 1 {
		windowSize = defaultWindowSize
	}
	return &StateRepo{
		state: repoModel.SlotState{
			SpinWindow: make([]repoModel.SpinResult, 0, windowSize),
			WindowSize: windowSize,
		},
	}
}

// Record adds one resolved spin to the ledger.
func (r *StateRepo) Record(bet, payout int, free bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.state.TotalSpins++
	if free {
		r.state.FreeSpins++
	}
	r.state.TotalBet += bet
	r.state.TotalPayout += payout
	if r.state.TotalBet > 0 {
		r.state.CurrentRTP = float64(r.state.TotalPayout) / float64(r.state.TotalBet)
	}

	r.state.SpinWindow = append(r.state.SpinWindow, repoModel.SpinResult{Bet: bet, Payout: payout})
	if len(r.state.SpinWindow) > r.state.WindowSize {
		r.state.SpinWindow = r.state.SpinWindow[1:]
	}

	var windowBet, windowPayout int
	for _, spin := range r.state.SpinWindow {
		windowBet += spin.Bet
		windowPayout += spin.Payout
	}
	if windowBet > 0 {
		r.state.WindowRTP = float64(windowPayout) / float64(windowBet)
	} else {
		r.state.WindowRTP = 0
	}
}

func (r *StateRepo) Stats() model.RTPStats {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return model.RTPStats{
		Spins:     r.state.TotalSpins,
		FreeSpins: r.state.FreeSpins,
		Wagered:   r.state.TotalBet,
		Returned:  r.state.TotalPayout,
		RTP:       r.state.CurrentRTP,
		WindowRTP: r.state.WindowRTP,
		Window:    len(r.state.SpinWindow),
	}
}
