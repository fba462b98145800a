package boundary

import "errors"

// ErrMaxSize is returned by New for capacities where bounded eviction cannot
// work.
var ErrMaxSize = errors.New("boundary: max size of 1 and below does not make sense")

// Entry is a row index paired with the boundary value found at that row. The
// value payload is opaque to the cache.
type Entry[V any] struct {
	Key   int
	Value V
}

// Cache stores up to a fixed number of row index to boundary value pairs for
// one partition. Lookups are ordered by key; eviction is strictly
// first-in-first-out by original insertion. See the package documentation for
// the ownership model.
type Cache[V any] struct {
	maxSize  int
	complete bool
	store    *orderedStore[V]
	queue    *fifoQueue
}

// New creates a Cache holding at most maxSize entries. maxSize must be at
// least 2 and is immutable afterwards.
func New[V any](maxSize int) (*Cache[V], error) {
	if maxSize <= 1 {
		return nil, ErrMaxSize
	}
	return &Cache[V]{
		maxSize: maxSize,
		store:   newOrderedStore[V](),
		queue:   newFIFOQueue(),
	}, nil
}

// Put inserts or overwrites the entry for key and returns the previous value,
// if any. A new key joins the back of the FIFO order; an overwrite keeps its
// original position. If the cache exceeds its capacity the oldest-inserted
// entries are evicted until it fits again.
func (c *Cache[V]) Put(key int, value V) (prev V, replaced bool) {
	prev, replaced = c.store.put(key, value)
	if !replaced {
		c.queue.enqueue(key)
	}
	for c.queue.len() > c.maxSize {
		c.evictOldest()
	}
	return prev, replaced
}

// PutIfNotFull puts the pair only when the cache has room for one more entry,
// and reports whether it did. The capacity check does not consider whether
// key is already resident: at full capacity even a plain overwrite is
// rejected. Callers rely on this conservative behavior.
func (c *Cache[V]) PutIfNotFull(key int, value V) bool {
	if c.queue.len()+1 > c.maxSize {
		return false
	}
	c.Put(key, value)
	return true
}

// EvictOne removes the oldest-inserted entry. The cache must not be empty;
// calling EvictOne on an empty cache is a caller bug and panics.
func (c *Cache[V]) EvictOne() {
	if c.queue.len() == 0 {
		panic("boundary: EvictOne called on an empty cache")
	}
	c.evictOldest()
}

// EvictHalf removes the older half of the cache, oldest first. On an odd
// size the extra entry is retained.
func (c *Cache[V]) EvictHalf() {
	evictCount := c.queue.len() / 2
	for i := 0; i < evictCount; i++ {
		c.evictOldest()
	}
}

// Clear empties the cache and resets the completeness flag.
func (c *Cache[V]) Clear() {
	c.complete = false
	c.queue.clear()
	c.store.clear()
}

// Complete reports whether the last range(s) of the partition have been
// loaded into the cache. It lets downstream logic tell "no further data
// exists" apart from "data exists but was evicted".
func (c *Cache[V]) Complete() bool {
	return c.complete
}

// SetComplete records whether the partition tail has been loaded.
func (c *Cache[V]) SetComplete(complete bool) {
	c.complete = complete
}

// Floor returns the resident entry with the greatest key not exceeding key.
// ok is false when key is smaller than every resident key or the cache is
// empty.
func (c *Cache[V]) Floor(key int) (entry Entry[V], ok bool) {
	return c.store.floor(key)
}

// MaxEntry returns the entry with the highest row index, if any.
func (c *Cache[V]) MaxEntry() (entry Entry[V], ok bool) {
	return c.store.max()
}

// ApproxPositionOf estimates the percentile of pos within the cache's fill, 0
// meaning the cache beginning and 100 the cache end. A pos below every
// resident key also yields 100: that data has already been evicted, so the
// position is treated as past the cache. The estimate equates FIFO position
// with key order, which is exact while the partition streams in ascending
// key order and approximate otherwise.
func (c *Cache[V]) ApproxPositionOf(pos int) int {
	if c.store.len() == 0 {
		return 0
	}
	floorEntry, ok := c.store.floor(pos)
	if !ok {
		return 100
	}
	return (100 * (c.queue.indexOf(floorEntry.Key) + 1)) / c.maxSize
}

// Len returns the number of resident entries.
func (c *Cache[V]) Len() int {
	return c.store.len()
}

// MaxSize returns the capacity fixed at construction.
func (c *Cache[V]) MaxSize() int {
	return c.maxSize
}

func (c *Cache[V]) evictOldest() {
	key, ok := c.queue.dequeueOldest()
	if !ok {
		return
	}
	c.store.remove(key)
}
