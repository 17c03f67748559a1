package model

// SlotState is the running return-to-player ledger.
type SlotState struct {
	TotalSpins  int // every resolved spin
	FreeSpins   int // spins that consumed no stake
	TotalBet    int
	TotalPayout int
	CurrentRTP  float64 // TotalPayout/TotalBet
	SpinWindow  []SpinResult
	WindowRTP   float64
	WindowSize  int
}

// SpinResult is one entry of the sliding window.
type SpinResult struct {
	Bet    int
	Payout int
}
