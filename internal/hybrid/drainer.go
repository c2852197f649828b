package hybrid

import (
	"cmp"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/arjunmehta/hybridpgm/internal/assert"
)

// drainer is the single dedicated background worker that merges drained
// batches into the primary store. It owns a capacity-1 task queue since
// only one drain is ever meaningfully pending at a time, consuming one
// batch and merging it before picking up the next.
type drainer[K cmp.Ordered] struct {
	store *Orchestrator[K]
	tasks chan []record[K]
	stop  chan struct{}
}

func newDrainer[K cmp.Ordered](store *Orchestrator[K]) *drainer[K] {
	return &drainer[K]{
		store: store,
		tasks: make(chan []record[K], 1),
		stop:  make(chan struct{}),
	}
}

// start launches the drainer loop under the given errgroup, so Close can
// join it, using golang.org/x/sync/errgroup to manage the background
// goroutine's lifecycle rather than a bare `go func(){}()` plus a
// hand-rolled WaitGroup.
func (d *drainer[K]) start(eg *errgroup.Group) {
	eg.Go(func() error {
		for {
			select {
			case batch, ok := <-d.tasks:
				if !ok {
					return nil
				}
				if !d.runOne(batch) {
					// Fail-stop: a panic inside the primary bulk insert means
					// the drainer itself terminates, permanently, with
					// isFlushing left true. The index remains queryable.
					return nil
				}
			case <-d.stop:
				// Finish whatever is already queued, then exit.
				select {
				case batch := <-d.tasks:
					d.runOne(batch)
				default:
				}
				return nil
			}
		}
	})
}

// enqueue posts a drain task. The caller (scheduler-driven swap) already
// guarantees at most one meaningful pending drain, matching the
// capacity-1 queue.
func (d *drainer[K]) enqueue(batch []record[K]) {
	d.tasks <- batch
}

func (d *drainer[K]) shutdown() {
	close(d.stop)
}

// runOne merges a single drained batch into the primary store. It
// returns false if the primary bulk insert panicked, signaling the
// caller to stop the drainer's loop entirely.
func (d *drainer[K]) runOne(batch []record[K]) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("drainer: primary bulk insert failed, draining disabled permanently", "cause", r)
			d.store.sched.failDrainPermanently()
			ok = false
		}
	}()

	keys := make([]K, len(batch))
	vals := make([]uint64, len(batch))
	for i, r := range batch {
		keys[i] = r.key
		vals[i] = r.val
	}

	// Sort the inflight batch and deduplicate it, keeping the last
	// occurrence of any repeated key (last-writer-wins within the batch).
	// The batch can contain repeats because the inflight buffer is an
	// append-only array, not a map.
	sortedKeys, sortedVals := sortAndDedup(keys, vals)
	assert.Unique(sortedKeys, "drainer: sortAndDedup produced a batch with a repeated key")

	// The bulk insert into primary and the inflight clear must be one
	// critical section from a reader's point of view: muInflight is held
	// across both, with muPrimary nested inside it, so RangeSum/Lookup
	// (which take the same two locks in the same order) always see either
	// the pre-merge state (key still in inflight, not yet in primary) or
	// the post-merge state (key in primary, inflight already cleared) —
	// never a torn mix with the key counted in both.
	// Both unlocks are deferred so that a panicking bulk insert does not
	// leave readers blocked on either lock.
	store := d.store
	store.muInflight.Lock()
	defer store.muInflight.Unlock()
	func() {
		store.muPrimary.Lock()
		defer store.muPrimary.Unlock()
		store.primary.BulkInsert(sortedKeys, sortedVals)
	}()

	store.deltaInflight.Clear()
	store.buf.clearInflight()

	store.sched.flushCount.Add(1)
	// Release isFlushing last, publishing the drain's completion.
	store.sched.isFlushing.Store(false)

	slog.Debug("drainer: flush complete", "batch_size", len(batch), "flush_count", store.sched.flushCount.Load())
	return true
}
