package model

import "time"

// StickyWild pins a wild variant to a cell for the rest of a bonus session.
type StickyWild struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Kind Symbol `json:"kind"`
}

// SessionState is everything persisted per player session.
type SessionState struct {
	Currency           int          `json:"currency"`
	Stake              int          `json:"stake"`
	ProgressMeter      int          `json:"progress_meter"`
	UnlockedRewards    []string     `json:"unlocked_rewards"`
	FreeSpinsRemaining int          `json:"free_spins_remaining"`
	StickyWilds        []StickyWild `json:"sticky_wilds"`
	LastGrid           *Grid        `json:"last_grid,omitempty"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// InBonus reports whether a free-spins session is active.
func (s *SessionState) InBonus() bool {
	return s.FreeSpinsRemaining > 0
}

// Unlocked reports whether rewardID was already granted.
func (s *SessionState) Unlocked(rewardID string) bool {
	for _, id := range s.UnlockedRewards {
		if id == rewardID {
			return true
		}
	}
	return false
}

// PinnedAt returns the sticky wild at (x, y), if any.
func (s *SessionState) PinnedAt(x, y int) (StickyWild, bool) {
	for _, p := range s.StickyWilds {
		if p.X == x && p.Y == y {
			return p, true
		}
	}
	return StickyWild{}, false
}

// Clone returns a deep copy so a spin can be resolved without touching the
// caller's state until it commits.
func (s SessionState) Clone() SessionState {
	out := s
	out.UnlockedRewards = append([]string(nil), s.UnlockedRewards...)
	out.StickyWilds = append([]StickyWild(nil), s.StickyWilds...)
	if s.LastGrid != nil {
		g := *s.LastGrid
		out.LastGrid = &g
	}
	return out
}
