package session_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cluster_slots/internal/model"
	"cluster_slots/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"
)

const (
	table     = "game_sessions"
	sessionID = "session_id"
	state     = "state"
	updatedAt = "updated_at"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

// NewSessionRepository stores sessions in Postgres. Queries run inside the
// transaction carried by ctx when there is one.
func NewSessionRepository(dbc *pgxpool.Pool, getter *trmpgx.CtxGetter) repository.SessionRepository {
	return &repo{
		dbc:    dbc,
		getter: getter,
	}
}

// Load - reads the session row and locks it until the surrounding
// transaction ends. Returns model.ErrSessionNotFound if there is no row.
func (r *repo) Load(ctx context.Context, id string) (*model.SessionState, error) {
	sqlStr, args, err := loadQuery(id).ToSql()
	if err != nil {
		return nil, err
	}

	var (
		raw []byte
		ts  time.Time
	)
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&raw, &ts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var st model.SessionState
	if err = json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	st.UpdatedAt = ts
	return &st, nil
}

// Save - upserts the session; the row timestamp comes from the database clock.
func (r *repo) Save(ctx context.Context, id string, st model.SessionState) (time.Time, error) {
	raw, err := json.Marshal(st)
	if err != nil {
		return time.Time{}, err
	}

	sqlStr, args, err := saveQuery(id, raw).ToSql()
	if err != nil {
		return time.Time{}, err
	}

	var ts time.Time
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&ts)
	if err != nil {
		return time.Time{}, err
	}
	return ts, nil
}

func loadQuery(id string) sq.SelectBuilder {
	return sq.Select(state, updatedAt).
		From(table).
		Where(sq.Eq{sessionID: id}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(sq.Dollar)
}

func saveQuery(id string, raw []byte) sq.InsertBuilder {
	return sq.Insert(table).
		Columns(sessionID, state, updatedAt).
		Values(id, raw, sq.Expr("now()")).
		Suffix("ON CONFLICT (" + sessionID + ") DO UPDATE SET " +
			state + " = EXCLUDED." + state + ", " +
			updatedAt + " = EXCLUDED." + updatedAt +
			" RETURNING " + updatedAt).
		PlaceholderFormat(sq.Dollar)
}
