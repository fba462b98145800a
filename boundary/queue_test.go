package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFIFOQueue_Order(t *testing.T) {
	q := newFIFOQueue()

	q.enqueue(5)
	q.enqueue(1)
	q.enqueue(3)
	// Re-enqueue keeps the original position.
	q.enqueue(5)

	assert.Equal(t, 3, q.len())
	assert.Equal(t, 0, q.indexOf(5))
	assert.Equal(t, 1, q.indexOf(1))
	assert.Equal(t, 2, q.indexOf(3))
	assert.Equal(t, -1, q.indexOf(42))

	key, ok := q.dequeueOldest()
	assert.True(t, ok)
	assert.Equal(t, 5, key)
	assert.Equal(t, 0, q.indexOf(1))
}

func TestFIFOQueue_DequeueEmpty(t *testing.T) {
	q := newFIFOQueue()

	_, ok := q.dequeueOldest()
	assert.False(t, ok)
}

func TestFIFOQueue_Clear(t *testing.T) {
	q := newFIFOQueue()

	q.enqueue(1)
	q.enqueue(2)
	q.clear()

	assert.Equal(t, 0, q.len())
	// Keys enqueued after a clear start a fresh order.
	q.enqueue(2)
	assert.Equal(t, 0, q.indexOf(2))
}
