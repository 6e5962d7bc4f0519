package credentials

import (
	"context"
	"time"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetAll(ctx context.Context, values map[string][]byte, expiresAt time.Time) error
	Delete(ctx context.Context, keys ...string) error
}
