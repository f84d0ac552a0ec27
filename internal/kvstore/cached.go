package kvstore

import (
	"context"
	"sync"
)

// Cached write-through cache in front of a backing Store. Warm it at startup
// with the application keys; afterwards reads are served from memory.
type Cached struct {
	backing Store

	mu      sync.RWMutex
	values  map[string]string
	present map[string]bool // known state per key: true=set, false=absent
	// gen bumps on every write; a miss fill only lands if it did not change
	gen map[string]uint64
}

// NewCached wraps backing
func NewCached(backing Store) *Cached {
	return &Cached{
		backing: backing,
		values:  make(map[string]string),
		present: make(map[string]bool),
		gen:     make(map[string]uint64),
	}
}

// Warm loads keys from the backing store into the cache.
func (c *Cached) Warm(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if _, _, err := c.fill(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cached) generation(key string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.gen[key]
}

// fill reads key from the backing store and caches it unless a write to the
// same key happened meanwhile
func (c *Cached) fill(ctx context.Context, key string) (string, bool, error) {
	g := c.generation(key)
	v, ok, err := c.backing.Get(ctx, key)
	if err != nil {
		return "", false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen[key] != g {
		// a newer write owns the entry
		return c.values[key], c.present[key], nil
	}
	c.store(key, v, ok)
	return v, ok, nil
}

// remember records a write; callers must not hold mu
func (c *Cached) remember(key, value string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen[key]++
	c.store(key, value, ok)
}

func (c *Cached) store(key, value string, ok bool) {
	c.present[key] = ok
	if ok {
		c.values[key] = value
	} else {
		delete(c.values, key)
	}
}

func (c *Cached) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	ok, known := c.present[key]
	v := c.values[key]
	c.mu.RUnlock()
	if known {
		return v, ok, nil
	}

	return c.fill(ctx, key)
}

func (c *Cached) Set(ctx context.Context, key, value string) error {
	if err := c.backing.Set(ctx, key, value); err != nil {
		return err
	}
	c.remember(key, value, true)
	return nil
}

func (c *Cached) Remove(ctx context.Context, key string) error {
	if err := c.backing.Remove(ctx, key); err != nil {
		return err
	}
	c.remember(key, "", false)
	return nil
}

// Backing returns the wrapped store
func (c *Cached) Backing() Store {
	return c.backing
}
