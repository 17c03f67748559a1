package session_redis_repo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cluster_slots/internal/model"

	"github.com/redis/go-redis/v9"
)

var errDown = errors.New("redis down")

// memServer answers GET, SET and TIME from memory so no server is dialled.
type memServer struct {
	mtx  sync.Mutex
	data map[string]string
	now  time.Time
	down bool
}

func (m *memServer) DialHook(next redis.DialHook) redis.DialHook { return next }

func (m *memServer) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (m *memServer) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		m.mtx.Lock()
		defer m.mtx.Unlock()
		if m.down {
			cmd.SetErr(errDown)
			return errDown
		}

		args := cmd.Args()
		switch c := cmd.(type) {
		case *redis.TimeCmd:
			c.SetVal(m.now)
		case *redis.StringCmd:
			v, ok := m.data[args[1].(string)]
			if !ok {
				c.SetErr(redis.Nil)
				return redis.Nil
			}
			c.SetVal(v)
		case *redis.StatusCmd:
			m.data[args[1].(string)] = string(args[2].([]byte))
			c.SetVal("OK")
		default:
			return next(ctx, cmd)
		}
		return nil
	}
}

func newTestRepo(t *testing.T) (*memServer, *repo) {
	t.Helper()
	srv := &memServer{
		data: make(map[string]string),
		now:  time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
	}
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	rdb.AddHook(srv)
	t.Cleanup(func() { _ = rdb.Close() })
	return srv, &repo{rdb: rdb}
}

func TestLoadMissing(t *testing.T) {
	_, r := newTestRepo(t)
	if _, err := r.Load(context.Background(), "nope"); !errors.Is(err, model.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSaveStampsWithServerClock(t *testing.T) {
	srv, r := newTestRepo(t)
	ctx := context.Background()

	st := model.SessionState{Currency: 40, Stake: 5, StickyWilds: []model.StickyWild{{X: 1, Y: 2, Kind: "WILD2"}}}
	ts, err := r.Save(ctx, "a", st)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !ts.Equal(srv.now) {
		t.Fatalf("timestamp: got %v, want %v", ts, srv.now)
	}
	if _, ok := srv.data[keyPrefix+"a"]; !ok {
		t.Fatalf("key %q not written", keyPrefix+"a")
	}

	loaded, err := r.Load(ctx, "a")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Currency != 40 || len(loaded.StickyWilds) != 1 || !loaded.UpdatedAt.Equal(srv.now) {
		t.Fatalf("loaded: %+v", loaded)
	}
}

func TestSaveFailsWhenDown(t *testing.T) {
	srv, r := newTestRepo(t)
	srv.down = true
	if _, err := r.Save(context.Background(), "a", model.SessionState{}); !errors.Is(err, errDown) {
		t.Fatalf("expected errDown, got %v", err)
	}
	if len(srv.data) != 0 {
		t.Fatalf("state written while down")
	}
}
