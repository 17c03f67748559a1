package slot

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"cluster_slots/internal/engine"
	"cluster_slots/internal/model"
	"cluster_slots/internal/repository"
	"cluster_slots/internal/repository/session_mem_repo"
	"cluster_slots/internal/repository/stats_repo"
	"cluster_slots/pkg/rng"
)

var errDown = errors.New("store down")

// flakyRepo fails saves while down is set and can park Load until released.
type flakyRepo struct {
	repository.SessionRepository

	mtx     sync.Mutex
	down    bool
	entered chan struct{}
	release chan struct{}
}

func newFlakyRepo() *flakyRepo {
	return &flakyRepo{SessionRepository: session_mem_repo.NewSessionRepository()}
}

func (r *flakyRepo) setDown(v bool) {
	r.mtx.Lock()
	r.down = v
	r.mtx.Unlock()
}

func (r *flakyRepo) Load(ctx context.Context, id string) (*model.SessionState, error) {
	if r.entered != nil {
		r.entered <- struct{}{}
		<-r.release
	}
	return r.SessionRepository.Load(ctx, id)
}

func (r *flakyRepo) Save(ctx context.Context, id string, st model.SessionState) (time.Time, error) {
	r.mtx.Lock()
	down := r.down
	r.mtx.Unlock()
	if down {
		return time.Time{}, errDown
	}
	return r.SessionRepository.Save(ctx, id, st)
}

func newService(t *testing.T, rules engine.Rules, repo repository.SessionRepository) *serv {
	t.Helper()
	eng, err := engine.New(rules, rng.NewSeeded(3))
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return NewSlotService(eng, repo, stats_repo.NewStatsRepository(100), nil, nil).(*serv)
}

func TestSpinPersists(t *testing.T) {
	ctx := context.Background()
	s := newService(t, engine.DefaultRules(), newFlakyRepo())

	id, st, err := s.NewSession(ctx)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if id == "" || st.Currency != 1000 || st.Stake != 10 || st.UpdatedAt.IsZero() {
		t.Fatalf("new session: %q %+v", id, st)
	}

	res, err := s.Spin(ctx, id, model.SpinRequest{Stake: 5})
	if err != nil {
		t.Fatalf("Spin: %v", err)
	}
	want := 1000 - res.Summary.StakeDeducted + res.Summary.TotalWin
	if res.State.Currency != want {
		t.Fatalf("currency: got %d, want %d", res.State.Currency, want)
	}

	stored, err := s.State(ctx, id)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if stored.Currency != want || stored.LastGrid == nil || !stored.UpdatedAt.Equal(res.State.UpdatedAt) {
		t.Fatalf("stored state: %+v", stored)
	}
	if s.Stats().Spins != 1 {
		t.Fatalf("stats not recorded")
	}
}

func TestSpinRejectsBadStake(t *testing.T) {
	s := newService(t, engine.DefaultRules(), newFlakyRepo())
	_, err := s.Spin(context.Background(), "x", model.SpinRequest{Stake: 51})
	if !errors.Is(err, model.ErrInvalidStake) {
		t.Fatalf("expected ErrInvalidStake, got %v", err)
	}
}

func TestSpinInsufficientFundsCommitsNothing(t *testing.T) {
	ctx := context.Background()
	rules := engine.DefaultRules()
	rules.StartingCurrency = 5
	s := newService(t, rules, newFlakyRepo())

	id, _, err := s.NewSession(ctx)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if _, err = s.Spin(ctx, id, model.SpinRequest{Stake: 10}); !errors.Is(err, model.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	st, _ := s.State(ctx, id)
	if st.Currency != 5 || st.LastGrid != nil {
		t.Fatalf("rejected spin changed state: %+v", st)
	}
	if s.Stats().Spins != 0 {
		t.Fatalf("rejected spin recorded")
	}

	if _, err = s.Deposit(ctx, id, 20); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if _, err = s.Spin(ctx, id, model.SpinRequest{Stake: 10}); err != nil {
		t.Fatalf("Spin after deposit: %v", err)
	}
}

func TestSaveFailureKeepsOutcome(t *testing.T) {
	ctx := context.Background()
	repo := newFlakyRepo()
	s := newService(t, engine.DefaultRules(), repo)

	id, _, err := s.NewSession(ctx)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	repo.setDown(true)
	res, err := s.Spin(ctx, id, model.SpinRequest{})
	if !errors.Is(err, model.ErrPersistenceUnavailable) || !errors.Is(err, errDown) {
		t.Fatalf("expected ErrPersistenceUnavailable, got %v", err)
	}
	if res == nil {
		t.Fatalf("resolved spin dropped")
	}
	resolved := res.State.Currency

	// the pending state is what the session now reads and builds on
	st, err := s.State(ctx, id)
	if err != nil || st.Currency != resolved {
		t.Fatalf("pending state not served: %+v %v", st, err)
	}

	if err = s.Flush(ctx, id); !errors.Is(err, model.ErrPersistenceUnavailable) {
		t.Fatalf("flush while down: %v", err)
	}
	repo.setDown(false)
	if err = s.Flush(ctx, id); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	stored, err := repo.SessionRepository.Load(ctx, id)
	if err != nil || stored.Currency != resolved {
		t.Fatalf("flushed state: %+v %v", stored, err)
	}
	if err = s.Flush(ctx, id); err != nil {
		t.Fatalf("second Flush: %v", err)
	}
}

func TestConcurrentSpinRejected(t *testing.T) {
	ctx := context.Background()
	repo := newFlakyRepo()
	s := newService(t, engine.DefaultRules(), repo)
	id, _, err := s.NewSession(ctx)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	repo.entered = make(chan struct{})
	repo.release = make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := s.Spin(ctx, id, model.SpinRequest{})
		done <- err
	}()
	<-repo.entered

	if _, err = s.Spin(ctx, id, model.SpinRequest{}); !errors.Is(err, model.ErrSpinInProgress) {
		t.Fatalf("expected ErrSpinInProgress, got %v", err)
	}
	if _, err = s.Deposit(ctx, id, 10); !errors.Is(err, model.ErrSpinInProgress) {
		t.Fatalf("deposit during spin: %v", err)
	}

	close(repo.release)
	if err = <-done; err != nil {
		t.Fatalf("first spin: %v", err)
	}
	repo.entered = nil
	if _, err = s.Spin(ctx, id, model.SpinRequest{}); err != nil {
		t.Fatalf("spin after release: %v", err)
	}
}

func TestResetAndDeposit(t *testing.T) {
	ctx := context.Background()
	s := newService(t, engine.DefaultRules(), newFlakyRepo())
	id, _, _ := s.NewSession(ctx)

	if _, err := s.Deposit(ctx, id, 0); !errors.Is(err, model.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	st, err := s.Deposit(ctx, id, 250)
	if err != nil || st.Currency != 1250 {
		t.Fatalf("Deposit: %+v %v", st, err)
	}

	if _, err = s.Deposit(ctx, id, math.MaxInt); !errors.Is(err, model.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount on overflow, got %v", err)
	}
	if st, err = s.State(ctx, id); err != nil || st.Currency != 1250 {
		t.Fatalf("balance changed by rejected deposit: %+v %v", st, err)
	}

	if _, err = s.Reset(ctx, "unknown"); !errors.Is(err, model.ErrSessionNotFound) {
		t.Fatalf("reset of unknown session: %v", err)
	}
	st, err = s.Reset(ctx, id)
	if err != nil || st.Currency != 1250 || st.ProgressMeter != 0 || st.FreeSpinsRemaining != 0 {
		t.Fatalf("Reset: %+v %v", st, err)
	}
}

func TestStateUnknownSession(t *testing.T) {
	s := newService(t, engine.DefaultRules(), newFlakyRepo())
	if _, err := s.State(context.Background(), "missing"); !errors.Is(err, model.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
