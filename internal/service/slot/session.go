package slot

import (
	"context"
	"errors"
	"fmt"
	"math"

	"cluster_slots/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// load returns the newest known state: an unsaved pending state first, then
// the store. fresh reports an id the store has never seen.
func (s *serv) load(ctx context.Context, id string) (st model.SessionState, fresh bool, err error) {
	if st, ok := s.pendingState(id); ok {
		return st, false, nil
	}
	stored, err := s.repo.Load(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return model.SessionState{}, true, nil
		}
		return model.SessionState{}, false, fmt.Errorf("%w: load session %s: %w", model.ErrPersistenceUnavailable, id, err)
	}
	return *stored, false, nil
}

// update applies fn to the session inside one transaction and saves the
// result. If fn succeeds but the save does not, the new state is kept as
// pending and returned along with an ErrPersistenceUnavailable error.
func (s *serv) update(ctx context.Context, id string, create bool, fn func(st model.SessionState) (model.SessionState, error)) (*model.SessionState, error) {
	var (
		next    model.SessionState
		applied bool
	)
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		st, fresh, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if fresh {
			if !create {
				return model.ErrSessionNotFound
			}
			st = s.engine.NewState()
		}

		next, err = fn(st)
		if err != nil {
			return err
		}
		applied = true

		ts, err := s.repo.Save(ctx, id, next)
		if err != nil {
			return fmt.Errorf("%w: save session %s: %w", model.ErrPersistenceUnavailable, id, err)
		}
		next.UpdatedAt = ts
		return nil
	})

	switch {
	case err == nil:
		s.clearPending(id)
		return &next, nil
	case applied:
		if !errors.Is(err, model.ErrPersistenceUnavailable) {
			err = fmt.Errorf("%w: commit session %s: %w", model.ErrPersistenceUnavailable, id, err)
		}
		s.setPending(id, next)
		s.log.Warn("session kept pending", zap.String("session", id), zap.Error(err))
		return &next, err
	default:
		return nil, err
	}
}

func (s *serv) NewSession(ctx context.Context) (string, *model.SessionState, error) {
	id := uuid.NewString()
	st, err := s.update(ctx, id, true, func(st model.SessionState) (model.SessionState, error) {
		return st, nil
	})
	if st == nil {
		return "", nil, err
	}
	s.log.Info("session created", zap.String("session", id))
	return id, st, err
}

func (s *serv) State(ctx context.Context, id string) (*model.SessionState, error) {
	st, fresh, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if fresh {
		return nil, model.ErrSessionNotFound
	}
	return &st, nil
}

// Flush retries the save of a pending state. Nothing pending is a no-op.
func (s *serv) Flush(ctx context.Context, id string) error {
	if err := s.acquire(id); err != nil {
		return err
	}
	defer s.release(id)

	st, ok := s.pendingState(id)
	if !ok {
		return nil
	}
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		_, err := s.repo.Save(ctx, id, st)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: flush session %s: %w", model.ErrPersistenceUnavailable, id, err)
	}
	s.clearPending(id)
	s.log.Info("pending session flushed", zap.String("session", id))
	return nil
}

func (s *serv) Deposit(ctx context.Context, id string, amount int) (*model.SessionState, error) {
	if amount <= 0 {
		return nil, model.ErrInvalidAmount
	}
	if err := s.acquire(id); err != nil {
		return nil, err
	}
	defer s.release(id)

	return s.update(ctx, id, false, func(st model.SessionState) (model.SessionState, error) {
		if st.Currency > math.MaxInt-amount {
			return st, fmt.Errorf("%w: balance %d cannot take %d more", model.ErrInvalidAmount, st.Currency, amount)
		}
		st.Currency += amount
		return st, nil
	})
}

// Reset is the explicit session reset: progression and any bonus session are
// cleared, currency stays.
func (s *serv) Reset(ctx context.Context, id string) (*model.SessionState, error) {
	if err := s.acquire(id); err != nil {
		return nil, err
	}
	defer s.release(id)

	return s.update(ctx, id, false, func(st model.SessionState) (model.SessionState, error) {
		return s.engine.Reset(st), nil
	})
}

func (s *serv) Stats() model.RTPStats {
	return s.statsRepo.Stats()
}
