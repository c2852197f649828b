package hybrid

import (
	"cmp"
	"sort"
)

// sortAndDedup sorts a batch that may contain repeated keys (the
// inflight buffer is an append-only array, so a key written twice before
// a swap appears twice) and collapses repeats, keeping the last
// occurrence of any repeated key. The result is the sorted, deduplicated
// batch the primary store's BulkInsert expects.
func sortAndDedup[K cmp.Ordered](keys []K, vals []uint64) ([]K, []uint64) {
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return keys[order[a]] < keys[order[b]] })

	dedupedKeys := make([]K, 0, len(keys))
	dedupedVals := make([]uint64, 0, len(keys))
	for i := 0; i < len(order); {
		j := i
		for j+1 < len(order) && keys[order[j+1]] == keys[order[i]] {
			j++
		}
		last := order[j]
		dedupedKeys = append(dedupedKeys, keys[last])
		dedupedVals = append(dedupedVals, vals[last])
		i = j + 1
	}
	return dedupedKeys, dedupedVals
}
