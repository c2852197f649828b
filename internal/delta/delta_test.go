package delta

import "testing"

func TestInsertAndFind(t *testing.T) {
	idx := New[int64]()
	idx.Insert(1, 10)
	idx.Insert(2, 20)

	if v, ok := idx.Find(1); !ok || v != 10 {
		t.Errorf("Find(1) = %v, %v; want 10, true", v, ok)
	}
	if _, ok := idx.Find(3); ok {
		t.Errorf("Find(3) should miss")
	}
}

func TestInsertOverwriteIsLastWriterWins(t *testing.T) {
	idx := New[int64]()
	idx.Insert(1, 10)
	idx.Insert(1, 20)

	if v, _ := idx.Find(1); v != 20 {
		t.Errorf("Find(1) = %v; want 20", v)
	}
	if idx.Size() != 1 {
		t.Errorf("Size() = %d; want 1 (overwrite must not grow size)", idx.Size())
	}
}

func TestRangeScanInclusiveBounds(t *testing.T) {
	idx := New[int64]()
	for i := int64(1); i <= 5; i++ {
		idx.Insert(i, uint64(i))
	}

	var sum uint64
	idx.RangeScan(2, 4, func(_ int64, v uint64) bool {
		sum += v
		return true
	})
	if sum != 9 {
		t.Errorf("sum = %d; want 9", sum)
	}

	// hi itself must be included.
	sum = 0
	idx.RangeScan(5, 5, func(_ int64, v uint64) bool {
		sum += v
		return true
	})
	if sum != 5 {
		t.Errorf("sum = %d; want 5 (hi bound inclusive)", sum)
	}
}

func TestClear(t *testing.T) {
	idx := New[int64]()
	idx.Insert(1, 10)
	idx.Clear()

	if idx.Size() != 0 {
		t.Errorf("Size() = %d; want 0 after Clear", idx.Size())
	}
	if _, ok := idx.Find(1); ok {
		t.Errorf("Find(1) should miss after Clear")
	}
}
