// Package sharding implements a consistent-hash ring. The registry uses it
// to derive which daemon instance owns the buffers of a given entity key, so
// that narrowly-scoped eviction requests can be targeted instead of
// broadcast.
package sharding

import (
	"hash/crc32"
	"sort"
	"strconv"
	"sync"
)

// Hash maps bytes to uint32.
type Hash func(data []byte) uint32

// Map is a consistent-hash ring with virtual nodes.
type Map struct {
	mu           sync.RWMutex
	hash         Hash
	virtualNodes int
	keys         []int // sorted virtual-node hashes
	hashMap      map[int]string
	owned        map[string][]int // virtual-node hashes per member
}

// New creates a ring placing virtualNodes points per member. A nil fn
// selects CRC-32 (IEEE).
func New(virtualNodes int, fn Hash) *Map {
	m := &Map{
		virtualNodes: virtualNodes,
		hash:         fn,
		hashMap:      make(map[int]string),
		owned:        make(map[string][]int),
	}
	if m.hash == nil {
		m.hash = crc32.ChecksumIEEE
	}
	return m
}

// Add places members on the ring. Adding a member twice is a no-op.
func (m *Map) Add(members ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, member := range members {
		if _, ok := m.owned[member]; ok {
			continue
		}
		for i := 0; i < m.virtualNodes; i++ {
			hash := int(m.hash([]byte(strconv.Itoa(i) + member)))
			m.keys = append(m.keys, hash)
			m.hashMap[hash] = member
			m.owned[member] = append(m.owned[member], hash)
		}
	}
	sort.Ints(m.keys)
}

// Get returns the member owning key, or "" on an empty ring.
func (m *Map) Get(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.keys) == 0 {
		return ""
	}

	hash := int(m.hash([]byte(key)))

	idx := sort.Search(len(m.keys), func(i int) bool {
		return m.keys[i] >= hash
	})
	// Wrap around past the highest point.
	if idx == len(m.keys) {
		idx = 0
	}

	return m.hashMap[m.keys[idx]]
}

// Remove takes a member off the ring.
func (m *Map) Remove(member string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hashes, ok := m.owned[member]
	if !ok {
		return
	}
	drop := make(map[int]struct{}, len(hashes))
	for _, h := range hashes {
		drop[h] = struct{}{}
		delete(m.hashMap, h)
	}
	kept := m.keys[:0]
	for _, k := range m.keys {
		if _, gone := drop[k]; !gone {
			kept = append(kept, k)
		}
	}
	m.keys = kept
	delete(m.owned, member)
}

// Len returns the number of members on the ring.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.owned)
}
