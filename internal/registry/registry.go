// Package registry tracks the daemon instances of a cluster. The membership
// is replicated through raft (see internal/consensus); eviction coordinators
// read it to know where to send requests.
package registry

import (
	"encoding/json"
	"io"
	"sort"
	"sync"

	"boundary-cache-service/internal/sharding"
)

const virtualNodes = 32

// Instance is one running daemon.
type Instance struct {
	ID      string `json:"id"`
	RPCAddr string `json:"rpc_addr"`
}

// Store is a thread-safe instance registry with consistent-hash placement.
type Store struct {
	mu        sync.RWMutex
	instances map[string]Instance
	ring      *sharding.Map
}

// New creates an empty registry.
func New() *Store {
	return &Store{
		instances: make(map[string]Instance),
		ring:      sharding.New(virtualNodes, nil),
	}
}

// Register adds or updates an instance.
func (s *Store) Register(inst Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances[inst.ID] = inst
	s.ring.Add(inst.ID)
}

// Deregister removes the instance with the given id.
func (s *Store) Deregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.instances, id)
	s.ring.Remove(id)
}

// Get returns the instance with the given id.
func (s *Store) Get(id string) (Instance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[id]
	return inst, ok
}

// Instances returns all registered instances, ordered by id.
func (s *Store) Instances() []Instance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]Instance, 0, len(s.instances))
	for _, inst := range s.instances {
		all = append(all, inst)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

// Locate returns the instance owning key on the placement ring. ok is false
// on an empty registry.
func (s *Store) Locate(key string) (Instance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id := s.ring.Get(key)
	if id == "" {
		return Instance{}, false
	}
	inst, ok := s.instances[id]
	return inst, ok
}

// Len returns the number of registered instances.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.instances)
}

// Snapshot writes the membership to w.
func (s *Store) Snapshot(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.NewEncoder(w).Encode(s.instances)
}

// Restore replaces the membership with the one read from r and rebuilds the
// placement ring.
func (s *Store) Restore(r io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	instances := make(map[string]Instance)
	if err := json.NewDecoder(r).Decode(&instances); err != nil {
		return err
	}
	s.instances = instances
	s.ring = sharding.New(virtualNodes, nil)
	for id := range instances {
		s.ring.Add(id)
	}
	return nil
}
