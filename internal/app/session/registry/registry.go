// Package registry provides a concurrency-safe store of live games keyed by
// generated IDs, with idle-entry reaping.
package registry

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

var ErrNotFound = errors.New("session not found")

type entry[T any] struct {
	value      T
	createdAt  time.Time
	lastActive time.Time
}

// Item is a registry entry as returned by All.
type Item[T any] struct {
	ID         string
	Value      T
	CreatedAt  time.Time
	LastActive time.Time
}

// Registry holds values under UUID keys with thread-safe access.
type Registry[T any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[T]
	now     func() time.Time
}

// New creates an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{
		entries: make(map[string]*entry[T]),
		now:     time.Now,
	}
}

// Add stores a value built for a freshly generated ID and returns the ID.
func (r *Registry[T]) Add(build func(id string) T) (string, T) {
	id := uuid.New().String()
	v := build(id)
	now := r.now()

	r.mu.Lock()
	r.entries[id] = &entry[T]{value: v, createdAt: now, lastActive: now}
	r.mu.Unlock()

	return id, v
}

// Get returns the value for id without touching its activity time.
func (r *Registry[T]) Get(id string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		var zero T
		return zero, errors.Wrapf(ErrNotFound, "id=%s", id)
	}
	return e.value, nil
}

// Touch returns the value for id and marks it as active now.
func (r *Registry[T]) Touch(id string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		var zero T
		return zero, errors.Wrapf(ErrNotFound, "id=%s", id)
	}
	e.lastActive = r.now()
	return e.value, nil
}

// Remove deletes the entry for id and returns its value.
func (r *Registry[T]) Remove(id string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		var zero T
		return zero, errors.Wrapf(ErrNotFound, "id=%s", id)
	}
	delete(r.entries, id)
	return e.value, nil
}

// All returns all entries, oldest first.
func (r *Registry[T]) All() []Item[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]Item[T], 0, len(r.entries))
	for id, e := range r.entries {
		items = append(items, Item[T]{ID: id, Value: e.value, CreatedAt: e.createdAt, LastActive: e.lastActive})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items
}

// Count returns the number of entries.
func (r *Registry[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Reap removes entries whose last activity is before cutoff and returns them.
func (r *Registry[T]) Reap(cutoff time.Time) []Item[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	var reaped []Item[T]
	for id, e := range r.entries {
		if e.lastActive.Before(cutoff) {
			reaped = append(reaped, Item[T]{ID: id, Value: e.value, CreatedAt: e.createdAt, LastActive: e.lastActive})
			delete(r.entries, id)
		}
	}
	return reaped
}

// RunReaper removes entries idle for longer than idle, checking every idle/2,
// until ctx is cancelled. onReap is called for each removed entry.
func (r *Registry[T]) RunReaper(ctx context.Context, idle time.Duration, onReap func(Item[T])) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reaped := r.Reap(r.now().Add(-idle))
			for _, item := range reaped {
				zlog.Info().Msgf("reaped idle session: id=%s idle_since=%s", item.ID, item.LastActive.Format(time.RFC3339))
				if onReap != nil {
					onReap(item)
				}
			}
		}
	}
}
