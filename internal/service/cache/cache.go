package cache

import (
	"context"
	"time"
)

// BytesCache stores rendered response payloads with a TTL. Analytics
// responses are cached as raw bytes so a hit skips both the query and the
// JSON encoding.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
