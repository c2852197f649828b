// Package delta implements the write-optimized delta index: a small
// ordered map optimized for cheap point insert, with no bulk-load or
// bulk-insert requirement.
//
// It is backed by github.com/google/btree's generic B-tree rather than a
// hand-rolled balanced tree, since the tier's entire reason to exist is
// cheap point insert into an ordered structure.
package delta

import (
	"cmp"

	"github.com/google/btree"
)

const btreeDegree = 32

type entry[K cmp.Ordered] struct {
	key K
	val uint64
}

// Index is the delta ordered map. The hybrid orchestrator serializes all
// mutation against a single instance behind its own lock; Index itself
// performs no locking.
type Index[K cmp.Ordered] struct {
	tree *btree.BTreeG[entry[K]]
	size int
}

// New returns a fresh, empty delta index.
func New[K cmp.Ordered]() *Index[K] {
	return &Index[K]{
		tree: btree.NewG(btreeDegree, func(a, b entry[K]) bool { return a.key < b.key }),
	}
}

// Insert binds key to val, overwriting any existing binding for key
// (last-writer-wins).
func (idx *Index[K]) Insert(key K, val uint64) {
	_, overwritten := idx.tree.ReplaceOrInsert(entry[K]{key: key, val: val})
	if !overwritten {
		idx.size++
	}
}

// Find returns the value bound to key, or (0, false) if absent.
func (idx *Index[K]) Find(key K) (uint64, bool) {
	item, ok := idx.tree.Get(entry[K]{key: key})
	if !ok {
		return 0, false
	}
	return item.val, true
}

// RangeScan calls fn for every entry with lo <= key <= hi, in ascending key
// order, stopping early if fn returns false.
func (idx *Index[K]) RangeScan(lo, hi K, fn func(key K, val uint64) bool) {
	stopped := false
	idx.tree.AscendRange(entry[K]{key: lo}, entry[K]{key: hi},
		func(item entry[K]) bool {
			if !fn(item.key, item.val) {
				stopped = true
				return false
			}
			return true
		})
	// AscendRange's upper bound is exclusive; pick up a key exactly equal to
	// hi separately so the range stays inclusive on both ends.
	if !stopped && !(hi < lo) {
		if item, ok := idx.tree.Get(entry[K]{key: hi}); ok {
			fn(item.key, item.val)
		}
	}
}

// Size reports the number of entries.
func (idx *Index[K]) Size() int {
	return idx.size
}

// Clear empties the index, as happens to the inflight delta index after a
// drain completes. (A swap does not clear the active delta index; it
// replaces it with a fresh one.)
func (idx *Index[K]) Clear() {
	idx.tree.Clear(false)
	idx.size = 0
}
