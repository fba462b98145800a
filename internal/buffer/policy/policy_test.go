package policy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFO(t *testing.T) {
	fifo := NewFIFO[string]()

	fifo.OnAdd("A")
	fifo.OnAdd("B")
	fifo.OnAdd("C")

	// Access must not let A escape eviction.
	fifo.OnAccess("A")
	// Re-adding must not refresh A's age either.
	fifo.OnAdd("A")

	victim, ok := fifo.SelectVictim()
	require.True(t, ok)
	assert.Equal(t, "A", victim)

	fifo.OnRemove("A")
	victim, ok = fifo.SelectVictim()
	require.True(t, ok)
	assert.Equal(t, "B", victim)
}

func TestLRU(t *testing.T) {
	lru := NewLRU[string]()

	lru.OnAdd("A")
	lru.OnAdd("B")
	lru.OnAdd("C")

	// Touch A: B becomes the least recently used.
	lru.OnAccess("A")

	victim, ok := lru.SelectVictim()
	require.True(t, ok)
	assert.Equal(t, "B", victim)

	lru.OnRemove("B")
	victim, ok = lru.SelectVictim()
	require.True(t, ok)
	assert.Equal(t, "C", victim)
}

func TestLFU(t *testing.T) {
	lfu := NewLFU[string]()

	lfu.OnAdd("A")
	lfu.OnAdd("B")
	lfu.OnAdd("C")

	lfu.OnAccess("A")
	lfu.OnAccess("A")
	lfu.OnAccess("B")

	// Frequencies: A=3, B=2, C=1.
	victim, ok := lfu.SelectVictim()
	require.True(t, ok)
	assert.Equal(t, "C", victim)

	lfu.OnRemove("C")
	victim, ok = lfu.SelectVictim()
	require.True(t, ok)
	assert.Equal(t, "B", victim)
}

func TestRandom(t *testing.T) {
	p := newRandomWithRand[string](rand.New(rand.NewSource(1)))

	_, ok := p.SelectVictim()
	assert.False(t, ok, "empty policy has no victim")

	p.OnAdd("A")
	p.OnAdd("B")
	p.OnAdd("C")

	victim, ok := p.SelectVictim()
	require.True(t, ok)
	assert.Contains(t, []string{"A", "B", "C"}, victim)

	p.OnRemove(victim)

	victim2, ok := p.SelectVictim()
	require.True(t, ok)
	assert.NotEqual(t, victim, victim2)
	assert.Contains(t, []string{"A", "B", "C"}, victim2)
}

func TestEmptyPolicies(t *testing.T) {
	_, ok := NewFIFO[int]().SelectVictim()
	assert.False(t, ok)
	_, ok = NewLRU[int]().SelectVictim()
	assert.False(t, ok)
	_, ok = NewLFU[int]().SelectVictim()
	assert.False(t, ok)
}
