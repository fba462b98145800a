package policy

import (
	"math/rand"
	"sync"
	"time"
)

// Random evicts a uniformly random key. Useful as a low-overhead baseline.
type Random[K comparable] struct {
	mu    sync.Mutex
	items []K
	index map[K]int
	rnd   *rand.Rand
}

// NewRandom creates a new Random policy instance with a time-based seed.
func NewRandom[K comparable]() *Random[K] {
	return newRandomWithRand[K](rand.New(rand.NewSource(time.Now().UnixNano())))
}

func newRandomWithRand[K comparable](r *rand.Rand) *Random[K] {
	return &Random[K]{
		index: make(map[K]int),
		rnd:   r,
	}
}

func (p *Random[K]) OnAccess(key K) {
	// Access patterns do not influence eviction probability.
}

func (p *Random[K]) OnAdd(key K) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.index[key]; ok {
		return
	}
	p.index[key] = len(p.items)
	p.items = append(p.items, key)
}

func (p *Random[K]) OnRemove(key K) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i, ok := p.index[key]
	if !ok {
		return
	}
	// Swap-remove, keeping the index map consistent.
	last := len(p.items) - 1
	p.items[i] = p.items[last]
	p.index[p.items[i]] = i
	p.items = p.items[:last]
	delete(p.index, key)
}

func (p *Random[K]) SelectVictim() (key K, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.items) == 0 {
		return key, false
	}
	return p.items[p.rnd.Intn(len(p.items))], true
}
