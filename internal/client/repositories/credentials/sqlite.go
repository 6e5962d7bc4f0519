package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// execer is the subset of database/sql shared by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type SQLiteRepository struct {
	db    *sql.DB
	clock clockwork.Clock
}

var _ Repository = (*SQLiteRepository)(nil)

// NewSQLiteRepository binds the repository to db. A nil clock means wall time.
func NewSQLiteRepository(db *sql.DB, clock clockwork.Clock) *SQLiteRepository {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SQLiteRepository{db: db, clock: clock}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		value     []byte
		expiresAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM credentials WHERE key = ?`, key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential[%s]: %w", key, err)
	}
	if expiresAt <= r.clock.Now().UnixMilli() {
		return nil, nil
	}
	return value, nil
}

func (r *SQLiteRepository) SetAll(ctx context.Context, values map[string][]byte, expiresAt time.Time) error {
	if len(values) == 0 {
		return nil
	}
	exp := expiresAt.UnixMilli()

	return withTx(ctx, r.db, func(tx execer) error {
		for key, value := range values {
			if value == nil {
				value = []byte{}
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO credentials (key, value, expires_at) VALUES (?, ?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
			`, key, value, exp)
			if err != nil {
				return fmt.Errorf("failed to set credential[%s]: %w", key, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE key IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("failed to delete credentials %v: %w", keys, err)
	}
	return nil
}

// PurgeExpired drops rows whose expiry has passed and reports how many went.
func (r *SQLiteRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE expires_at <= ?`, r.clock.Now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to purge credentials: %w", err)
	}
	return res.RowsAffected()
}

// withTx runs fn in a transaction: commit on nil, rollback on error or panic.
func withTx(ctx context.Context, db *sql.DB, fn func(tx execer) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(tx)
}
