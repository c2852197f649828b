package primary

import "testing"

func TestBulkLoadAndFind(t *testing.T) {
	idx := New[int64]()
	idx.BulkLoad([]int64{3, 1, 2}, []uint64{30, 10, 20})

	if v, ok := idx.Find(2); !ok || v != 20 {
		t.Errorf("Find(2) = %v, %v; want 20, true", v, ok)
	}
	if _, ok := idx.Find(4); ok {
		t.Errorf("Find(4) should miss")
	}
}

func TestInsertOverwrites(t *testing.T) {
	idx := New[int64]()
	idx.BulkLoad([]int64{1}, []uint64{10})
	idx.Insert(1, 99)
	if v, _ := idx.Find(1); v != 99 {
		t.Errorf("Find(1) = %v; want 99", v)
	}
}

func TestBulkInsertSmallBatchUsesPointInserts(t *testing.T) {
	idx := New[int64]()
	idx.BulkLoad([]int64{1, 2, 3}, []uint64{1, 2, 3})
	idx.BulkInsert([]int64{4, 5}, []uint64{4, 5})

	for k := int64(1); k <= 5; k++ {
		if v, ok := idx.Find(k); !ok || v != uint64(k) {
			t.Errorf("Find(%d) = %v, %v; want %d, true", k, v, ok, k)
		}
	}
}

func TestBulkInsertRebuildPathDedupesFavoringBatch(t *testing.T) {
	idx := New[int64]()
	existing := make([]int64, 0, 200)
	existingVals := make([]uint64, 0, 200)
	for i := int64(0); i < 200; i++ {
		existing = append(existing, i)
		existingVals = append(existingVals, uint64(i))
	}
	idx.BulkLoad(existing, existingVals)

	// A large batch (>=100) that overwrites key 5 and adds new keys.
	batch := make([]int64, 0, 150)
	batchVals := make([]uint64, 0, 150)
	batch = append(batch, 5)
	batchVals = append(batchVals, 555)
	for i := int64(200); i < 349; i++ {
		batch = append(batch, i)
		batchVals = append(batchVals, uint64(i))
	}
	idx.BulkInsert(batch, batchVals)

	if v, ok := idx.Find(5); !ok || v != 555 {
		t.Errorf("Find(5) = %v, %v; want 555, true (batch should win ties)", v, ok)
	}
	if v, ok := idx.Find(0); !ok || v != 0 {
		t.Errorf("Find(0) = %v, %v; want 0, true", v, ok)
	}
	if v, ok := idx.Find(348); !ok || v != 348 {
		t.Errorf("Find(348) = %v, %v; want 348, true", v, ok)
	}
}

func TestBulkInsertOnEmptyDelegatesToBulkLoad(t *testing.T) {
	idx := New[int64]()
	idx.BulkInsert([]int64{2, 1}, []uint64{20, 10})
	if v, ok := idx.Find(1); !ok || v != 10 {
		t.Errorf("Find(1) = %v, %v; want 10, true", v, ok)
	}
}

func TestBulkInsertDedupesWithinBatch(t *testing.T) {
	idx := New[int64]()
	existing := make([]int64, 0, 150)
	existingVals := make([]uint64, 0, 150)
	for i := int64(0); i < 150; i++ {
		existing = append(existing, i)
		existingVals = append(existingVals, uint64(i))
	}
	idx.BulkLoad(existing, existingVals)

	batch := make([]int64, 0, 120)
	batchVals := make([]uint64, 0, 120)
	for i := int64(500); i < 619; i++ {
		batch = append(batch, i)
		batchVals = append(batchVals, uint64(i))
	}
	// Duplicate key 500 appears again at the end of the batch with a newer value.
	batch = append(batch, 500)
	batchVals = append(batchVals, 999)
	idx.BulkInsert(batch, batchVals)

	if v, ok := idx.Find(500); !ok || v != 999 {
		t.Errorf("Find(500) = %v, %v; want 999, true (later occurrence should win)", v, ok)
	}
}

func TestRangeScan(t *testing.T) {
	idx := New[int64]()
	idx.BulkLoad([]int64{1, 2, 3, 4, 5}, []uint64{1, 2, 3, 4, 5})

	var sum uint64
	idx.RangeScan(2, 4, func(_ int64, v uint64) bool {
		sum += v
		return true
	})
	if sum != 9 {
		t.Errorf("sum = %d; want 9", sum)
	}
}

func TestRangeScanEarlyStop(t *testing.T) {
	idx := New[int64]()
	idx.BulkLoad([]int64{1, 2, 3, 4, 5}, []uint64{1, 2, 3, 4, 5})

	var seen []int64
	idx.RangeScan(1, 5, func(k int64, _ uint64) bool {
		seen = append(seen, k)
		return k < 3
	})
	if len(seen) != 3 {
		t.Errorf("seen = %v; want 3 entries", seen)
	}
}
