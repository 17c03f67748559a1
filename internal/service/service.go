package service

import (
	"context"

	"cluster_slots/internal/model"
)

type SlotService interface {
	NewSession(ctx context.Context) (string, *model.SessionState, error)
	Spin(ctx context.Context, sessionID string, req model.SpinRequest) (*model.SpinResult, error)
	Flush(ctx context.Context, sessionID string) error
	State(ctx context.Context, sessionID string) (*model.SessionState, error)
	Deposit(ctx context.Context, sessionID string, amount int) (*model.SessionState, error)
	Reset(ctx context.Context, sessionID string) (*model.SessionState, error)
	Stats() model.RTPStats
}

// TxManager runs fn inside one storage transaction. trm.Manager satisfies it.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
