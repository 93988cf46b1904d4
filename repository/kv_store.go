package repository

import "context"

// KVStore is a flat string-to-string store. Values are JSON documents; the key
// layout is shared with exported snapshots, so keys are never rewritten.
type KVStore interface {
	// Get returns ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	// Keys lists the keys starting with prefix in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
