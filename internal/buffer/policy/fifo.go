package policy

import (
	"container/list"
	"sync"
)

// FIFO evicts in first-insertion order. Updating a key does not refresh its
// age; only removal and re-insertion does.
type FIFO[K comparable] struct {
	mu    sync.Mutex
	order *list.List
	items map[K]*list.Element
}

// NewFIFO creates a new FIFO policy instance.
func NewFIFO[K comparable]() *FIFO[K] {
	return &FIFO[K]{
		order: list.New(),
		items: make(map[K]*list.Element),
	}
}

func (p *FIFO[K]) OnAccess(key K) {
	// Access does not change insertion order.
}

func (p *FIFO[K]) OnAdd(key K) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.items[key]; ok {
		return
	}
	p.items[key] = p.order.PushBack(key)
}

func (p *FIFO[K]) OnRemove(key K) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if elem, ok := p.items[key]; ok {
		p.order.Remove(elem)
		delete(p.items, key)
	}
}

func (p *FIFO[K]) SelectVictim() (key K, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	elem := p.order.Front()
	if elem == nil {
		return key, false
	}
	return elem.Value.(K), true
}
