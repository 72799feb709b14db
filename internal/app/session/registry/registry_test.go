package registry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestRegistry() (*Registry[string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 10, 16, 19, 0, 0, 0, time.UTC)}
	r := New[string]()
	r.now = clock.Now
	return r, clock
}

func TestRegistry_AddGetRemove(t *testing.T) {
	r, _ := newTestRegistry()

	id, v := r.Add(func(id string) string { return "game-" + id })
	require.NotEmpty(t, id)
	assert.Equal(t, "game-"+id, v)
	assert.Equal(t, 1, r.Count())

	got, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	removed, err := r.Remove(id)
	require.NoError(t, err)
	assert.Equal(t, v, removed)
	assert.Equal(t, 0, r.Count())

	_, err = r.Get(id)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = r.Remove(id)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = r.Touch(id)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRegistry_AllOldestFirst(t *testing.T) {
	r, clock := newTestRegistry()

	first, _ := r.Add(func(string) string { return "first" })
	clock.Advance(time.Minute)
	second, _ := r.Add(func(string) string { return "second" })

	items := r.All()
	require.Len(t, items, 2)
	assert.Equal(t, first, items[0].ID)
	assert.Equal(t, second, items[1].ID)
}

func TestRegistry_Reap(t *testing.T) {
	r, clock := newTestRegistry()

	idle, _ := r.Add(func(string) string { return "idle" })
	busy, _ := r.Add(func(string) string { return "busy" })

	clock.Advance(30 * time.Minute)
	_, err := r.Touch(busy)
	require.NoError(t, err)
	clock.Advance(20 * time.Minute)

	reaped := r.Reap(clock.Now().Add(-45 * time.Minute))
	require.Len(t, reaped, 1)
	assert.Equal(t, idle, reaped[0].ID)
	assert.Equal(t, "idle", reaped[0].Value)

	_, err = r.Get(busy)
	assert.NoError(t, err)
	_, err = r.Get(idle)
	assert.Error(t, err)
}

func TestRegistry_RunReaperStopsOnCancel(t *testing.T) {
	r := New[string]()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		r.RunReaper(ctx, 20*time.Millisecond, nil)
		close(done)
	}()

	r.Add(func(string) string { return "x" })
	require.Eventually(t, func() bool { return r.Count() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop")
	}
}

func TestRegistry_RunReaperDisabled(t *testing.T) {
	r := New[string]()
	// returns immediately when idle timeout is disabled
	r.RunReaper(context.Background(), 0, nil)
}
