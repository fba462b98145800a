// Package buffer holds the blocks of table data a daemon has cached, indexed
// by the database entity they were read from so that proactive eviction
// requests can drop them by db, table or partition.
package buffer

import (
	"sync"
	"time"

	"boundary-cache-service/internal/buffer/policy"
)

// Tag identifies the entity a buffer was read from. Partition maps partition
// column names to values; it is nil for unpartitioned data.
type Tag struct {
	DB        string            `json:"db"`
	Table     string            `json:"table,omitempty"`
	Partition map[string]string `json:"partition,omitempty"`
}

// Buffer is one cached block.
type Buffer struct {
	Tag        Tag    `json:"tag"`
	Data       []byte `json:"data"`
	Expiration int64  `json:"expiration"` // Unix timestamp in nanoseconds, 0 means no expiry
}

// Store is a thread-safe in-memory buffer cache with a capacity bound and a
// pluggable eviction policy.
type Store struct {
	mu       sync.RWMutex
	buffers  map[string]*Buffer
	capacity int
	policy   policy.Policy[string]
}

// Option configures a Store.
type Option func(*Store)

// WithCapacity bounds the store to n buffers; 0 means unbounded.
func WithCapacity(n int) Option {
	return func(s *Store) { s.capacity = n }
}

// WithPolicy selects the capacity-eviction policy. FIFO is the default.
func WithPolicy(p policy.Policy[string]) Option {
	return func(s *Store) { s.policy = p }
}

// New creates a new Store.
func New(opts ...Option) *Store {
	s := &Store{
		buffers: make(map[string]*Buffer),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.policy == nil {
		s.policy = policy.NewFIFO[string]()
	}
	return s
}

// Get returns the data cached under id and whether it was found.
func (s *Store) Get(id string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buf, found := s.buffers[id]
	if !found {
		return nil, false
	}
	if buf.Expiration > 0 && time.Now().UnixNano() > buf.Expiration {
		return nil, false
	}

	s.policy.OnAccess(id)
	return buf.Data, true
}

// Put caches data under id, tagged with the entity it belongs to. A ttl of 0
// means no expiry. When the store is at capacity, victims chosen by the
// policy make room first.
func (s *Store) Put(id string, tag Tag, data []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.buffers[id]
	if !exists && s.capacity > 0 {
		for len(s.buffers) >= s.capacity {
			victim, ok := s.policy.SelectVictim()
			if !ok {
				break
			}
			delete(s.buffers, victim)
			s.policy.OnRemove(victim)
		}
	}

	expiration := int64(0)
	if ttl > 0 {
		expiration = time.Now().Add(ttl).UnixNano()
	}
	s.buffers[id] = &Buffer{
		Tag:        tag,
		Data:       data,
		Expiration: expiration,
	}

	if exists {
		s.policy.OnAccess(id)
	} else {
		s.policy.OnAdd(id)
	}
}

// Delete removes the buffer cached under id.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buffers[id]; ok {
		delete(s.buffers, id)
		s.policy.OnRemove(id)
	}
}

// Len returns the number of resident buffers.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buffers)
}

// EvictMatching removes every buffer whose tag satisfies match and returns
// how many buffers and bytes were released.
func (s *Store) EvictMatching(match func(Tag) bool) (count int, bytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, buf := range s.buffers {
		if !match(buf.Tag) {
			continue
		}
		count++
		bytes += int64(len(buf.Data))
		delete(s.buffers, id)
		s.policy.OnRemove(id)
	}
	return count, bytes
}

// StartCleanup starts a background goroutine that drops expired buffers.
func (s *Store) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			s.deleteExpired()
		}
	}()
}

func (s *Store) deleteExpired() {
	now := time.Now().UnixNano()
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, buf := range s.buffers {
		if buf.Expiration > 0 && now > buf.Expiration {
			delete(s.buffers, id)
			s.policy.OnRemove(id)
		}
	}
}
