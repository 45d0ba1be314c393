package service

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"
)

// idleLRU is a bounded in-memory LRU whose entries expire after a period of disuse.
// Every hit slides the entry's expiry forward. Safe for concurrent use.
type idleLRU[V any] struct {
	mu      sync.Mutex
	cap     int
	idle    time.Duration
	ll      *list.List               // front = most-recently used
	items   map[string]*list.Element // key -> element
	now     func() time.Time
	onEvict func(key string, value V)
	evicts  atomic.Uint64
}

type idleEntry[V any] struct {
	key    string
	value  V
	expiry time.Time // zero means no expiry
}

// idleLRUConfig groups constructor options.
type idleLRUConfig[V any] struct {
	Capacity int
	// IdleTTL <= 0 disables expiry; only capacity evicts.
	IdleTTL time.Duration
	Now     func() time.Time
	OnEvict func(key string, value V)
}

func newIdleLRU[V any](cfg idleLRUConfig[V]) *idleLRU[V] {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 1024
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &idleLRU[V]{
		cap:     capacity,
		idle:    cfg.IdleTTL,
		ll:      list.New(),
		items:   make(map[string]*list.Element),
		now:     nowFn,
		onEvict: cfg.OnEvict,
	}
}

// Get returns the value for key if present and not idle-expired, refreshing its expiry.
func (c *idleLRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, found := c.items[key]
	if !found {
		return zero, false
	}
	ent := el.Value.(*idleEntry[V])
	if c.isExpired(ent) {
		c.removeElement(el)
		return zero, false
	}
	ent.expiry = c.expiry()
	c.ll.MoveToFront(el)
	return ent.value, true
}

// GetOrCreate returns the live value for key or stores the one built by create.
// create runs under the lock so two callers never build competing values.
func (c *idleLRU[V]) GetOrCreate(key string, create func() V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, found := c.items[key]; found {
		ent := el.Value.(*idleEntry[V])
		if !c.isExpired(ent) {
			ent.expiry = c.expiry()
			c.ll.MoveToFront(el)
			return ent.value, false
		}
		c.removeElement(el)
	}

	v := create()
	c.items[key] = c.ll.PushFront(&idleEntry[V]{key: key, value: v, expiry: c.expiry()})
	c.evictIfNeeded()
	return v, true
}

// Delete removes key.
func (c *idleLRU[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
		return true
	}
	return false
}

// Len returns the current number of entries, expired ones included until touched.
func (c *idleLRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Sweep drops every idle-expired entry and returns how many were removed.
func (c *idleLRU[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for el := c.ll.Back(); el != nil; {
		prev := el.Prev()
		if c.isExpired(el.Value.(*idleEntry[V])) {
			c.removeElement(el)
			removed++
		}
		el = prev
	}
	return removed
}

// Evictions reports how many entries were pushed out by capacity.
func (c *idleLRU[V]) Evictions() uint64 { return c.evicts.Load() }

// Helpers (caller must hold c.mu).
func (c *idleLRU[V]) expiry() time.Time {
	if c.idle <= 0 {
		return time.Time{}
	}
	return c.now().Add(c.idle)
}

func (c *idleLRU[V]) isExpired(e *idleEntry[V]) bool {
	if e.expiry.IsZero() {
		return false
	}
	return c.now().After(e.expiry)
}

func (c *idleLRU[V]) removeElement(el *list.Element) {
	c.ll.Remove(el)
	ent := el.Value.(*idleEntry[V])
	delete(c.items, ent.key)
	if c.onEvict != nil {
		c.onEvict(ent.key, ent.value)
	}
}

func (c *idleLRU[V]) evictIfNeeded() {
	for c.ll.Len() > c.cap {
		el := c.ll.Back()
		if el == nil {
			return
		}
		c.removeElement(el)
		c.evicts.Add(1)
	}
}
