package repository

import (
	"context"
	"time"

	"cluster_slots/internal/model"
)

// SessionRepository is the key-value store for session state. Writes are
// last-write-wins and stamped by the store.
type SessionRepository interface {
	Load(ctx context.Context, sessionID string) (*model.SessionState, error)
	Save(ctx context.Context, sessionID string, state model.SessionState) (time.Time, error)
}

// StatsRepository accumulates observed return-to-player figures.
type StatsRepository interface {
	Record(wagered, returned int, free bool)
	Stats() model.RTPStats
}
