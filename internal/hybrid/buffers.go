package hybrid

import (
	"cmp"

	"github.com/arjunmehta/hybridpgm/internal/assert"
)

// record is a single (key, value) pair as it is appended to a buffer.
type record[K cmp.Ordered] struct {
	key K
	val uint64
}

// buffers holds the active/inflight append-only array pair that shadows
// the active/inflight delta indexes for flush purposes. All mutation
// happens under the orchestrator's write lock, so buffers itself does no
// locking.
type buffers[K cmp.Ordered] struct {
	active   []record[K]
	inflight []record[K]
}

func newBuffers[K cmp.Ordered]() *buffers[K] {
	return &buffers[K]{}
}

// append adds a write to the active buffer. The caller inserts the same
// key/value into the active delta index in the same critical section, so
// the two stay in lockstep.
func (b *buffers[K]) append(key K, val uint64) {
	b.active = append(b.active, record[K]{key: key, val: val})
}

// size is the active buffer's length, the quantity the scheduler compares
// against the drain threshold.
func (b *buffers[K]) size() int {
	return len(b.active)
}

// checkActiveAgreement asserts that the active buffer's raw append count
// never falls behind the active delta index's unique-key count. The
// buffer is append-only (it can hold repeated keys), while the delta
// index deduplicates on insert, so the buffer can only be longer than or
// equal to the index it shadows; a violation means the two fell out of
// lockstep.
func (b *buffers[K]) checkActiveAgreement(deltaSize int) {
	assert.True(len(b.active) >= deltaSize, "buffers: active buffer shorter than active delta index it shadows")
}

// canSwap reports whether the previous drain has finished consuming the
// inflight buffer. If the inflight buffer is still non-empty at swap
// time, the scheduler must not swap — the writer backs off and the
// active buffer keeps growing until the drainer finishes.
func (b *buffers[K]) canSwap() bool {
	return len(b.inflight) == 0
}

// swap moves the active buffer's contents into the inflight slot and
// resets the active slot to empty. The caller holds the orchestrator's
// write lock across this call and the matching delta-index swap so the
// two moves are observed together.
func (b *buffers[K]) swap() []record[K] {
	batch := b.active
	b.active = nil
	b.inflight = batch
	return batch
}

// clearInflight drops the inflight buffer once the drainer has finished
// merging it into the primary store.
func (b *buffers[K]) clearInflight() {
	b.inflight = nil
}
