// Package cache holds the in-process resolution cache used to avoid
// redundant tenant lookups.
package cache

import (
	"sync"
	"time"

	"github.com/stepsciences/scanportal/internal/clock"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a map with per-entry expiry. Expired entries are dropped on
// read; there is no size-based eviction since the tenant count is small.
type TTLCache[K comparable, V any] struct {
	clk   clock.Clock
	ttl   time.Duration
	mu    sync.RWMutex
	items map[K]entry[V]
}

func NewTTLCache[K comparable, V any](clk clock.Clock, ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		clk:   clk,
		ttl:   ttl,
		items: make(map[K]entry[V]),
	}
}

func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if !c.clk.Now().Before(item.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return zero, false
	}
	return item.value, true
}

// Set overwrites unconditionally and stamps a fresh expiry.
func (c *TTLCache[K, V]) Set(key K, value V) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.items[key] = entry[V]{
		value:     value,
		expiresAt: c.clk.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

func (c *TTLCache[K, V]) Delete(key K) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *TTLCache[K, V]) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.items = make(map[K]entry[V])
	c.mu.Unlock()
}

func (c *TTLCache[K, V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
