package domain

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss reports that a key is absent from the cache.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache stores serialized quiz details keyed by quiz ID.
// Delete of an absent key succeeds.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	// Set with a zero expiration keeps the value until it is deleted.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}
