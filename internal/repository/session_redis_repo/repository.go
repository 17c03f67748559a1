package session_redis_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cluster_slots/internal/model"
	"cluster_slots/internal/repository"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "slot:session:"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type repo struct {
	rdb *redis.Client
}

func NewSessionRepository(rdb *redis.Client) repository.SessionRepository {
	return &repo{rdb: rdb}
}

func key(id string) string {
	return keyPrefix + id
}

func (r *repo) Load(ctx context.Context, id string) (*model.SessionState, error) {
	raw, err := r.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var st model.SessionState
	if err = json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &st, nil
}

// Save stamps the state with the Redis server clock and overwrites the key.
func (r *repo) Save(ctx context.Context, id string, st model.SessionState) (time.Time, error) {
	ts, err := r.rdb.Time(ctx).Result()
	if err != nil {
		return time.Time{}, err
	}
	st.UpdatedAt = ts.UTC()

	raw, err := json.Marshal(st)
	if err != nil {
		return time.Time{}, err
	}
	if err = r.rdb.Set(ctx, key(id), raw, 0).Err(); err != nil {
		return time.Time{}, err
	}
	return st.UpdatedAt, nil
}
