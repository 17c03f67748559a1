package slot

type SpinRequest struct {
	Stake int `json:"stake"` // 0 keeps the session stake
}

type DepositRequest struct {
	Amount int `json:"amount"`
}

type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type StickyWild struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Kind string `json:"kind"`
}

type ClusterWin struct {
	Kind           string `json:"kind"`
	Size           int    `json:"size"`
	Cells          []Cell `json:"cells"`
	WildMultiplier int    `json:"wild_multiplier"`
	Payout         int    `json:"payout"`
}

// Round is one grid state of a spin, in play order.
type Round struct {
	Index          int          `json:"index"`
	Grid           [][]string   `json:"grid"` // [row][column], row 0 on top
	WinningCells   []Cell       `json:"winning_cells"`
	Wins           []ClusterWin `json:"wins"`
	Payout         int          `json:"payout"`
	ProgressTokens int          `json:"progress_tokens"`
	ProgressCoins  int          `json:"progress_coins"`
	PinnedWilds    []StickyWild `json:"pinned_wilds,omitempty"`
}

type Summary struct {
	TotalWin        int      `json:"total_win"`
	ClusterWin      int      `json:"cluster_win"`
	ProgressCoins   int      `json:"progress_coins"`
	MeterDelta      int      `json:"meter_delta"`
	BonusTransition string   `json:"bonus_transition"`
	FreeSpin        bool     `json:"free_spin"`
	StakeDeducted   int      `json:"stake_deducted"`
	Unlocked        []string `json:"unlocked,omitempty"`
}

type StateResponse struct {
	Currency           int          `json:"currency"`
	Stake              int          `json:"stake"`
	ProgressMeter      int          `json:"progress_meter"`
	UnlockedRewards    []string     `json:"unlocked_rewards"`
	FreeSpinsRemaining int          `json:"free_spins_remaining"`
	StickyWilds        []StickyWild `json:"sticky_wilds"`
	LastGrid           [][]string   `json:"last_grid,omitempty"`
	UpdatedAt          string       `json:"updated_at,omitempty"`
	Persisted          bool         `json:"persisted"`
	Warning            string       `json:"warning,omitempty"`
}

type SessionResponse struct {
	SessionID string        `json:"session_id"`
	State     StateResponse `json:"state"`
}

type SpinResponse struct {
	Rounds  []Round       `json:"rounds"`
	Summary Summary       `json:"summary"`
	State   StateResponse `json:"state"`
}

type StatsResponse struct {
	Spins     int     `json:"spins"`
	FreeSpins int     `json:"free_spins"`
	Wagered   int     `json:"wagered"`
	Returned  int     `json:"returned"`
	RTP       float64 `json:"rtp"`
	WindowRTP float64 `json:"window_rtp"`
	Window    int     `json:"window"`
}

// StreamMessage is one websocket frame in either direction.
type StreamMessage struct {
	Type    string         `json:"type"` // spin | round | summary | error
	Stake   int            `json:"stake,omitempty"`
	Round   *Round         `json:"round,omitempty"`
	Summary *Summary       `json:"summary,omitempty"`
	State   *StateResponse `json:"state,omitempty"`
	Error   string         `json:"error,omitempty"`
	Code    int            `json:"code,omitempty"` // HTTP-equivalent status of an error
}
