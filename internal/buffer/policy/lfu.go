package policy

import (
	"container/heap"
	"sync"
)

type lfuItem[K comparable] struct {
	key       K
	frequency int
	index     int
}

// frequencyHeap is a min-heap over access frequency.
type frequencyHeap[K comparable] []*lfuItem[K]

func (h frequencyHeap[K]) Len() int { return len(h) }

func (h frequencyHeap[K]) Less(i, j int) bool {
	return h[i].frequency < h[j].frequency
}

func (h frequencyHeap[K]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *frequencyHeap[K]) Push(x interface{}) {
	item := x.(*lfuItem[K])
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *frequencyHeap[K]) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// LFU evicts the least frequently used key.
type LFU[K comparable] struct {
	mu    sync.Mutex
	heap  frequencyHeap[K]
	items map[K]*lfuItem[K]
}

// NewLFU creates a new LFU policy instance.
func NewLFU[K comparable]() *LFU[K] {
	return &LFU[K]{
		heap:  make(frequencyHeap[K], 0),
		items: make(map[K]*lfuItem[K]),
	}
}

func (p *LFU[K]) OnAccess(key K) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if item, ok := p.items[key]; ok {
		item.frequency++
		heap.Fix(&p.heap, item.index)
	}
}

func (p *LFU[K]) OnAdd(key K) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if item, ok := p.items[key]; ok {
		item.frequency++
		heap.Fix(&p.heap, item.index)
		return
	}
	item := &lfuItem[K]{key: key, frequency: 1}
	heap.Push(&p.heap, item)
	p.items[key] = item
}

func (p *LFU[K]) OnRemove(key K) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if item, ok := p.items[key]; ok {
		heap.Remove(&p.heap, item.index)
		delete(p.items, key)
	}
}

func (p *LFU[K]) SelectVictim() (key K, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.heap) == 0 {
		return key, false
	}
	return p.heap[0].key, true
}
