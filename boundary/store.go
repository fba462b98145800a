package boundary

import (
	"math"

	"github.com/google/btree"
)

// Max entries in each btree node. Caches are bounded at tens to low hundreds
// of entries, so a small degree keeps the tree shallow without waste.
const btreeDegree = 8

// orderedStore holds the resident entries ordered by key and answers
// floor-style queries against them.
type orderedStore[V any] struct {
	tree *btree.BTreeG[Entry[V]]
}

func newOrderedStore[V any]() *orderedStore[V] {
	less := func(a, b Entry[V]) bool { return a.Key < b.Key }
	return &orderedStore[V]{tree: btree.NewG(btreeDegree, less)}
}

// put inserts or overwrites the entry for key and reports the previous value,
// if any.
func (s *orderedStore[V]) put(key int, value V) (prev V, replaced bool) {
	old, had := s.tree.ReplaceOrInsert(Entry[V]{Key: key, Value: value})
	return old.Value, had
}

// floor returns the entry with the greatest key not exceeding key. The second
// return is false when every resident key is greater, or the store is empty.
func (s *orderedStore[V]) floor(key int) (Entry[V], bool) {
	var (
		entry Entry[V]
		found bool
	)
	s.tree.DescendLessOrEqual(Entry[V]{Key: key}, func(item Entry[V]) bool {
		entry, found = item, true
		return false
	})
	return entry, found
}

// max is floor queried with the greatest representable key.
func (s *orderedStore[V]) max() (Entry[V], bool) {
	return s.floor(math.MaxInt)
}

func (s *orderedStore[V]) remove(key int) {
	s.tree.Delete(Entry[V]{Key: key})
}

func (s *orderedStore[V]) len() int {
	return s.tree.Len()
}

func (s *orderedStore[V]) clear() {
	s.tree.Clear(false)
}
