package session_mem_repo

import (
	"context"
	"sync"
	"time"

	"cluster_slots/internal/model"
	"cluster_slots/internal/repository"
)

type repo struct {
	mtx      sync.RWMutex
	sessions map[string]model.SessionState
	now      func() time.Time
}

// NewSessionRepository keeps sessions in process memory.
func NewSessionRepository() repository.SessionRepository {
	return newRepo(time.Now)
}

func newRepo(now func() time.Time) *repo {
	return &repo{
		sessions: make(map[string]model.SessionState),
		now:      now,
	}
}

func (r *repo) Load(_ context.Context, id string) (*model.SessionState, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	st, ok := r.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	out := st.Clone()
	return &out, nil
}

func (r *repo) Save(_ context.Context, id string, st model.SessionState) (time.Time, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	st = st.Clone()
	st.UpdatedAt = r.now().UTC()
	r.sessions[id] = st
	return st.UpdatedAt, nil
}
