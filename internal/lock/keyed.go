// Package lock provides a keyed mutual-exclusion primitive whose Acquire
// honours context cancellation, so a request that gives up stops waiting.
package lock

import (
	"context"
	"sync"
)

// Keyed serializes work per key. Entries are reference counted and removed
// once no holder or waiter remains, so the map does not grow with the number
// of keys ever seen.
type Keyed struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

// New returns an empty Keyed lock.
func New() *Keyed {
	return &Keyed{slots: make(map[string]*slot)}
}

// Acquire blocks until the lock for key is held or ctx is done. On success it
// returns a release func that must be called exactly once.
func (k *Keyed) Acquire(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	s, ok := k.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		k.slots[key] = s
	}
	s.refs++
	k.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		k.unref(key, s)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			k.unref(key, s)
		})
	}, nil
}

func (k *Keyed) unref(key string, s *slot) {
	k.mu.Lock()
	s.refs--
	if s.refs == 0 {
		delete(k.slots, key)
	}
	k.mu.Unlock()
}

// Len reports the number of keys currently held or awaited.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.slots)
}
