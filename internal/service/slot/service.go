package slot

import (
	"context"
	"sync"

	"cluster_slots/internal/engine"
	"cluster_slots/internal/model"
	"cluster_slots/internal/repository"
	"cluster_slots/internal/service"

	"go.uber.org/zap"
)

type serv struct {
	engine    *engine.Engine
	repo      repository.SessionRepository
	statsRepo repository.StatsRepository
	txManager service.TxManager
	log       *zap.Logger

	mtx      sync.Mutex
	inFlight map[string]struct{}
	// resolved states whose save failed, newest per session
	pending map[string]model.SessionState
}

// NewSlotService wires the engine to session storage. txManager may be nil
// for stores without transactions.
func NewSlotService(
	eng *engine.Engine,
	repo repository.SessionRepository,
	statsRepo repository.StatsRepository,
	txManager service.TxManager,
	log *zap.Logger,
) service.SlotService {
	if txManager == nil {
		txManager = NoTx{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &serv{
		engine:    eng,
		repo:      repo,
		statsRepo: statsRepo,
		txManager: txManager,
		log:       log,
		inFlight:  make(map[string]struct{}),
		pending:   make(map[string]model.SessionState),
	}
}

// NoTx runs fn directly.
type NoTx struct{}

func (NoTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// acquire marks a session busy; a second caller gets ErrSpinInProgress
// until release.
func (s *serv) acquire(id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return model.ErrSpinInProgress
	}
	s.inFlight[id] = struct{}{}
	return nil
}

func (s *serv) release(id string) {
	s.mtx.Lock()
	delete(s.inFlight, id)
	s.mtx.Unlock()
}

func (s *serv) pendingState(id string) (model.SessionState, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	st, ok := s.pending[id]
	return st.Clone(), ok
}

func (s *serv) setPending(id string, st model.SessionState) {
	s.mtx.Lock()
	s.pending[id] = st.Clone()
	s.mtx.Unlock()
}

func (s *serv) clearPending(id string) {
	s.mtx.Lock()
	delete(s.pending, id)
	s.mtx.Unlock()
}
