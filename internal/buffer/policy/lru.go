package policy

import (
	"container/list"
	"sync"
)

// LRU evicts the least recently used key.
type LRU[K comparable] struct {
	mu    sync.Mutex
	order *list.List
	items map[K]*list.Element
}

// NewLRU creates a new LRU policy instance.
func NewLRU[K comparable]() *LRU[K] {
	return &LRU[K]{
		order: list.New(),
		items: make(map[K]*list.Element),
	}
}

func (p *LRU[K]) OnAccess(key K) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if elem, ok := p.items[key]; ok {
		p.order.MoveToFront(elem)
	}
}

func (p *LRU[K]) OnAdd(key K) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if elem, ok := p.items[key]; ok {
		p.order.MoveToFront(elem)
		return
	}
	p.items[key] = p.order.PushFront(key)
}

func (p *LRU[K]) OnRemove(key K) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if elem, ok := p.items[key]; ok {
		p.order.Remove(elem)
		delete(p.items, key)
	}
}

func (p *LRU[K]) SelectVictim() (key K, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	elem := p.order.Back()
	if elem == nil {
		return key, false
	}
	return elem.Value.(K), true
}
