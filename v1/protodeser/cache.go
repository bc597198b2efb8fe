package protodeser

import (
	"container/list"
	"context"
	"sync"
)

// DefaultCacheCapacity is the schema cache bound used when no capacity is
// configured.
const DefaultCacheCapacity = 1000

// SchemaKey identifies a resolved schema: the registry subject together with
// the registry-assigned schema id. Keys are comparable and uniquely
// determine a schema handle for the lifetime of the process; registry-side
// changes under an unchanged id are not tracked.
type SchemaKey struct {
	Subject  string
	SchemaID int32
}

// cacheEntry is one resident or in-flight cache slot. handle and err are
// written exactly once, before ready is closed; after that the entry is
// immutable.
type cacheEntry struct {
	key    SchemaKey
	handle *SchemaHandle
	err    error
	ready  chan struct{}
	done   bool // guarded by SchemaCache.mu, true once handle/err are set
}

// SchemaCache is a bounded, concurrency-safe memoization store for resolved
// schema handles with least-recently-used eviction.
//
// The cache guarantees at most one concurrent resolution per key: the first
// caller for a missing key runs the resolver while later callers for the
// same key wait, bounded by their own context, and receive the same outcome.
// Failed resolutions are never cached, so the next caller after a failure
// retries the resolver.
//
// The mutex only covers map and list bookkeeping; resolver calls run outside
// the lock, so a slow resolution for one key never blocks access to others.
type SchemaCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[SchemaKey]*list.Element
	order    *list.List // front = most recently used
}

// NewSchemaCache creates a cache bounded to the given number of distinct
// keys. Capacities below 1 fall back to DefaultCacheCapacity.
func NewSchemaCache(capacity int) *SchemaCache {
	if capacity < 1 {
		capacity = DefaultCacheCapacity
	}
	return &SchemaCache{
		capacity: capacity,
		entries:  make(map[SchemaKey]*list.Element),
		order:    list.New(),
	}
}

// GetOrResolve returns the handle cached under key, resolving it with the
// given function on a miss.
//
// Concurrent callers for the same missing key share a single resolver
// invocation: whoever arrives first resolves, everyone waiting on that
// in-flight resolution receives its result, success or failure. The shared
// resolution runs with the first caller's context; a waiter whose own ctx
// expires first stops waiting and returns ctx.Err() without disturbing the
// in-flight resolution.
func (c *SchemaCache) GetOrResolve(ctx context.Context, key SchemaKey, resolve func() (*SchemaHandle, error)) (*SchemaHandle, error) {
	c.mu.Lock()
	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry)
		c.order.MoveToFront(elem)
		c.mu.Unlock()
		select {
		case <-entry.ready:
			return entry.handle, entry.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	entry := &cacheEntry{key: key, ready: make(chan struct{})}
	elem := c.order.PushFront(entry)
	c.entries[key] = elem
	c.evictLocked()
	c.mu.Unlock()

	handle, err := resolve()

	c.mu.Lock()
	entry.handle = handle
	entry.err = err
	entry.done = true
	if err != nil {
		// Failed resolutions are not cached; drop the entry so the next
		// call retries. Waiters already holding the entry still observe
		// this error through the ready channel.
		if cur, ok := c.entries[key]; ok && cur == elem {
			delete(c.entries, key)
			c.order.Remove(elem)
		}
	}
	close(entry.ready)
	c.mu.Unlock()

	return handle, err
}

// Get returns the handle cached under key without resolving. It reports
// false for absent keys and for keys whose resolution is still in flight.
func (c *SchemaCache) Get(key SchemaKey) (*SchemaHandle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*cacheEntry)
	if !entry.done || entry.err != nil {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return entry.handle, true
}

// Len returns the number of resident entries, including in-flight ones.
func (c *SchemaCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the configured bound.
func (c *SchemaCache) Capacity() int {
	return c.capacity
}

// evictLocked removes least-recently-used completed entries until the cache
// is within capacity. In-flight entries are skipped: evicting one would
// strand its waiters, so the bound can transiently exceed capacity by the
// number of concurrent resolutions.
func (c *SchemaCache) evictLocked() {
	for elem := c.order.Back(); elem != nil && len(c.entries) > c.capacity; {
		prev := elem.Prev()
		entry := elem.Value.(*cacheEntry)
		if entry.done {
			delete(c.entries, entry.key)
			c.order.Remove(elem)
		}
		elem = prev
	}
}
