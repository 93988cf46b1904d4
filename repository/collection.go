package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"harvesterbilling/apperrors"
)

// Entity is anything stored in a Collection, addressed by its id.
type Entity interface {
	EntityID() string
}

// keyLocks serialises read-modify-write cycles on a single key within this process.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *keyLocks) lock(key string) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func readJSON(ctx context.Context, store KVStore, key string, out any) (bool, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("%w: %s: %v", apperrors.ErrCorruptData, key, err)
	}
	return true, nil
}

func writeJSON(ctx context.Context, store KVStore, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := store.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Collection is a JSON array of entities stored under one key.
// An absent key reads as an empty collection.
type Collection[T Entity] struct {
	store KVStore
	locks *keyLocks
	key   string
}

func NewCollection[T Entity](store KVStore, key string) *Collection[T] {
	return newCollection[T](store, newKeyLocks(), key)
}

func newCollection[T Entity](store KVStore, locks *keyLocks, key string) *Collection[T] {
	return &Collection[T]{store: store, locks: locks, key: key}
}

func (c *Collection[T]) Key() string { return c.key }

func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	items := []T{}
	if _, err := readJSON(ctx, c.store, c.key, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// GetByID returns nil, nil when no entity has the id.
func (c *Collection[T]) GetByID(ctx context.Context, id string) (*T, error) {
	items, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].EntityID() == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

// Replace overwrites the whole collection.
func (c *Collection[T]) Replace(ctx context.Context, items []T) error {
	unlock := c.locks.lock(c.key)
	defer unlock()
	return writeJSON(ctx, c.store, c.key, items)
}

// Mutate runs fn on the current items and writes back its result. The key stays
// locked for the duration, so concurrent mutations in this process do not clobber
// each other. A malformed stored value aborts before fn is called.
func (c *Collection[T]) Mutate(ctx context.Context, fn func([]T) ([]T, error)) ([]T, error) {
	unlock := c.locks.lock(c.key)
	defer unlock()

	items, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := fn(items)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		updated = []T{}
	}
	if err := writeJSON(ctx, c.store, c.key, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Upsert replaces the entity with the same id in place, or appends it.
func (c *Collection[T]) Upsert(ctx context.Context, item T) error {
	_, err := c.Mutate(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if items[i].EntityID() == item.EntityID() {
				items[i] = item
				return items, nil
			}
		}
		return append(items, item), nil
	})
	return err
}

// Prepend inserts the entity at the front; lists shown newest first use it.
func (c *Collection[T]) Prepend(ctx context.Context, item T) error {
	_, err := c.Mutate(ctx, func(items []T) ([]T, error) {
		return append([]T{item}, items...), nil
	})
	return err
}

// Delete removes the entity and reports whether it existed.
func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	found := false
	_, err := c.Mutate(ctx, func(items []T) ([]T, error) {
		out := items[:0]
		for _, it := range items {
			if it.EntityID() == id {
				found = true
				continue
			}
			out = append(out, it)
		}
		return out, nil
	})
	return found, err
}

// Document is a single JSON object stored under one key.
type Document[T any] struct {
	store    KVStore
	locks    *keyLocks
	key      string
	fallback func() T
}

func newDocument[T any](store KVStore, locks *keyLocks, key string, fallback func() T) *Document[T] {
	return &Document[T]{store: store, locks: locks, key: key, fallback: fallback}
}

func (d *Document[T]) Key() string { return d.key }

// Get returns the fallback value when nothing is stored yet.
func (d *Document[T]) Get(ctx context.Context) (T, error) {
	v := d.fallback()
	if _, err := readJSON(ctx, d.store, d.key, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

func (d *Document[T]) Put(ctx context.Context, v T) error {
	unlock := d.locks.lock(d.key)
	defer unlock()
	return writeJSON(ctx, d.store, d.key, v)
}

func (d *Document[T]) Update(ctx context.Context, fn func(*T) error) (T, error) {
	unlock := d.locks.lock(d.key)
	defer unlock()

	v, err := d.Get(ctx)
	if err != nil {
		return v, err
	}
	if err := fn(&v); err != nil {
		return v, err
	}
	return v, writeJSON(ctx, d.store, d.key, v)
}
