package model

type SpinRequest struct {
	Stake int // 0 keeps the session stake
}

type BonusTransition string

const (
	BonusNone        BonusTransition = "none"
	BonusTriggered   BonusTransition = "triggered"
	BonusRetriggered BonusTransition = "retriggered"
	BonusEnded       BonusTransition = "ended"
)

// ClusterWin is one paying cluster found in a single evaluation pass.
type ClusterWin struct {
	Kind           Symbol `json:"kind"`
	Size           int    `json:"size"`
	Cells          []Cell `json:"cells"`
	WildMultiplier int    `json:"wild_multiplier"`
	Payout         int    `json:"payout"`
}

// RoundSnapshot is what a presentation layer needs to replay one grid state:
// the grid as evaluated, the cells that paid and what the round was worth.
type RoundSnapshot struct {
	Index          int          `json:"index"`
	Grid           Grid         `json:"grid"`
	WinningCells   []Cell       `json:"winning_cells"`
	Wins           []ClusterWin `json:"wins"`
	Payout         int          `json:"payout"`
	ProgressTokens int          `json:"progress_tokens"`
	ProgressCoins  int          `json:"progress_coins"`
	PinnedWilds    []StickyWild `json:"pinned_wilds,omitempty"`
}

type SpinSummary struct {
	TotalWin        int             `json:"total_win"`
	ClusterWin      int             `json:"cluster_win"`
	ProgressCoins   int             `json:"progress_coins"`
	MeterDelta      int             `json:"meter_delta"`
	BonusTransition BonusTransition `json:"bonus_transition"`
	FreeSpin        bool            `json:"free_spin"`
	StakeDeducted   int             `json:"stake_deducted"`
	Unlocked        []string        `json:"unlocked,omitempty"`
}

type SpinResult struct {
	Rounds  []RoundSnapshot `json:"rounds"`
	Summary SpinSummary     `json:"summary"`
	State   SessionState    `json:"state"`
}

// RTPStats is the observed return over recorded spins.
type RTPStats struct {
	Spins     int     `json:"spins"`
	FreeSpins int     `json:"free_spins"`
	Wagered   int     `json:"wagered"`
	Returned  int     `json:"returned"`
	RTP       float64 `json:"rtp"`
	WindowRTP float64 `json:"window_rtp"`
	Window    int     `json:"window"`
}
