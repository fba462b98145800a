package boundary

import "container/list"

// fifoQueue tracks the first-insertion order of resident keys. Overwriting a
// key never moves it; only eviction or Clear removes it.
type fifoQueue struct {
	order *list.List
	elems map[int]*list.Element
}

func newFIFOQueue() *fifoQueue {
	return &fifoQueue{
		order: list.New(),
		elems: make(map[int]*list.Element),
	}
}

// enqueue appends key to the back. Keys already present keep their position.
func (q *fifoQueue) enqueue(key int) {
	if _, ok := q.elems[key]; ok {
		return
	}
	q.elems[key] = q.order.PushBack(key)
}

// dequeueOldest removes and returns the front key. ok is false on an empty
// queue.
func (q *fifoQueue) dequeueOldest() (key int, ok bool) {
	front := q.order.Front()
	if front == nil {
		return 0, false
	}
	q.order.Remove(front)
	key = front.Value.(int)
	delete(q.elems, key)
	return key, true
}

// indexOf returns the 0-based position of key from the front, -1 if absent.
// The scan is linear but bounded by the cache capacity.
func (q *fifoQueue) indexOf(key int) int {
	i := 0
	for e := q.order.Front(); e != nil; e = e.Next() {
		if e.Value.(int) == key {
			return i
		}
		i++
	}
	return -1
}

func (q *fifoQueue) len() int {
	return q.order.Len()
}

func (q *fifoQueue) clear() {
	q.order.Init()
	q.elems = make(map[int]*list.Element)
}
