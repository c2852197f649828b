// Package primary implements the primary ordered index: cheap to query
// and expensive to mutate one key at a time, optimized instead for bulk
// construction and bulk merge.
//
// This stands in for a piecewise-geometric-model learned index whose
// internal model-fitting is treated as opaque; what the hybrid
// orchestrator actually depends on is the contract — bulk load, point
// insert, bulk insert, find, range scan, size — and, in particular, the
// bulk-insert rebuild algorithm, which decides between point inserts and
// a full sort-merge-dedup rebuild depending on batch size.
package primary

import (
	"cmp"
	"log/slog"
	"sort"
)

type pair[K cmp.Ordered] struct {
	key K
	val uint64
}

// Index is the primary ordered map. It is not safe for concurrent use; the
// hybrid orchestrator serializes all access to it behind its own lock.
type Index[K cmp.Ordered] struct {
	pairs []pair[K] // sorted ascending by key
}

// New returns an empty primary index.
func New[K cmp.Ordered]() *Index[K] {
	return &Index[K]{}
}

// BulkLoad constructs the index from a sequence of unique (key, value)
// pairs. The input need not be sorted.
func (idx *Index[K]) BulkLoad(keys []K, values []uint64) {
	pairs := make([]pair[K], len(keys))
	for i := range keys {
		pairs[i] = pair[K]{key: keys[i], val: values[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })
	idx.pairs = pairs
}

// Insert performs a single point insert. The orchestrator reaches this
// via the read-heavy bypass, and via BulkInsert when a drained batch has
// fewer than 100 entries.
func (idx *Index[K]) Insert(key K, val uint64) {
	i := idx.search(key)
	if i < len(idx.pairs) && idx.pairs[i].key == key {
		idx.pairs[i].val = val
		return
	}
	idx.pairs = append(idx.pairs, pair[K]{})
	copy(idx.pairs[i+1:], idx.pairs[i:])
	idx.pairs[i] = pair[K]{key: key, val: val}
}

// BulkInsert merges a batch into the index. batchKeys/batchValues need
// not be sorted. On a non-empty index, repeated keys resolve to their
// last occurrence (point inserts in order for small batches, keep-last
// dedup on the rebuild path). On an empty index the batch goes straight
// to BulkLoad, which expects unique keys and does not deduplicate.
func (idx *Index[K]) BulkInsert(batchKeys []K, batchValues []uint64) {
	n := len(idx.pairs)
	m := len(batchKeys)

	if n == 0 {
		idx.BulkLoad(batchKeys, batchValues)
		return
	}

	if m < 100 {
		for i, k := range batchKeys {
			idx.Insert(k, batchValues[i])
		}
		return
	}

	// Destructive scan of the existing index into one array, with the new
	// batch appended after it: existing entries occupy [0,n), batch entries
	// occupy [n,n+m).
	merged := make([]pair[K], 0, n+m)
	merged = append(merged, idx.pairs...)
	idx.pairs = nil
	for i, k := range batchKeys {
		merged = append(merged, pair[K]{key: k, val: batchValues[i]})
	}

	order := make([]int, len(merged))
	for i := range order {
		order[i] = i
	}
	// Stable sort by key: ties keep their relative order, and because batch
	// entries were appended after the existing entries, a tie always
	// resolves in favor of the batch — exactly last-writer-wins across the
	// two tiers being merged.
	sort.SliceStable(order, func(a, b int) bool {
		return merged[order[a]].key < merged[order[b]].key
	})

	deduped := make([]pair[K], 0, len(merged))
	for i := 0; i < len(order); {
		j := i
		for j+1 < len(order) && merged[order[j+1]].key == merged[order[i]].key {
			j++
		}
		// order[i..j] is a run of equal keys; the last index in the run is
		// the most recently written value because the stable sort preserved
		// insertion order within ties.
		deduped = append(deduped, merged[order[j]])
		i = j + 1
	}

	idx.pairs = deduped
	slog.Debug("primary bulk insert", "existing", n, "batch", m, "result", len(deduped))
}

// Find returns the value bound to key, or (0, false) if absent.
func (idx *Index[K]) Find(key K) (uint64, bool) {
	i := idx.search(key)
	if i < len(idx.pairs) && idx.pairs[i].key == key {
		return idx.pairs[i].val, true
	}
	return 0, false
}

// RangeScan calls fn for every entry with lo <= key <= hi, in ascending key
// order, stopping early if fn returns false.
func (idx *Index[K]) RangeScan(lo, hi K, fn func(key K, val uint64) bool) {
	i := idx.search(lo)
	for ; i < len(idx.pairs) && idx.pairs[i].key <= hi; i++ {
		if !fn(idx.pairs[i].key, idx.pairs[i].val) {
			return
		}
	}
}

// Size reports an approximate byte footprint.
func (idx *Index[K]) Size() int {
	const approxPairWidth = 16 // key + uint64 value, generous for small scalar keys
	return len(idx.pairs) * approxPairWidth
}

func (idx *Index[K]) search(key K) int {
	return sort.Search(len(idx.pairs), func(i int) bool { return idx.pairs[i].key >= key })
}
