// Package hybrid implements a two-tier index with asynchronous merging:
// a learned primary index (fast to query, slow to mutate) fronted by a
// write-optimized delta index that absorbs inserts and is periodically
// drained into the primary by a single background worker.
//
// Orchestrator is the public face: it routes lookups, range queries and
// inserts across the primary store, the active/inflight delta tiers and
// their shadow buffers, and owns the swap protocol and the drainer's
// lifecycle. See scheduler.go for the flush policy, buffers.go for the
// double-buffering/swap protocol, and drainer.go for the background
// merge worker.
package hybrid

import (
	"cmp"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arjunmehta/hybridpgm/internal/delta"
	"github.com/arjunmehta/hybridpgm/internal/primary"
)

// NotFound is the sentinel Lookup returns for an absent key.
const NotFound = ^uint64(0)

// KV is a single (key, value) pair, used for Build's input and for
// callers assembling batches.
type KV[K cmp.Ordered] struct {
	Key K
	Val uint64
}

// Orchestrator is the hybrid index's public contract.
type Orchestrator[K cmp.Ordered] struct {
	primary *primary.Index[K]

	deltaActive   *delta.Index[K]
	deltaInflight *delta.Index[K]
	buf           *buffers[K]

	sched   *scheduler
	drainer *drainer[K]

	// muActive guards deltaActive and buf.active, the tier a writer appends to.
	muActive sync.RWMutex
	// muInflight guards deltaInflight and buf.inflight, the tier a drain reads from.
	muInflight sync.RWMutex
	// muPrimary guards primary (read-mostly, exclusive only during a drain
	// or a bypassed insert).
	muPrimary sync.RWMutex

	opts            *Opts
	initialDataSize int

	eg     *errgroup.Group
	closed bool
	closeM sync.Mutex
}

// Build bulk-loads a new orchestrator from the supplied data and starts
// its background drainer, returning the elapsed build time. data need
// not be sorted; keys are assumed unique and are not deduplicated.
// A non-positive opts.ThresholdPct is replaced with the default.
func Build[K cmp.Ordered](data []KV[K], opts *Opts) (*Orchestrator[K], time.Duration) {
	if opts == nil {
		opts = DefaultOpts()
	}
	if opts.ThresholdPct <= 0 {
		slog.Warn("hybrid: non-positive threshold_pct, substituting default", "got", opts.ThresholdPct)
		fixed := *opts
		fixed.ThresholdPct = defaultThresholdPct
		opts = &fixed
	}

	start := time.Now()

	keys := make([]K, len(data))
	vals := make([]uint64, len(data))
	for i, kv := range data {
		keys[i] = kv.Key
		vals[i] = kv.Val
	}

	p := primary.New[K]()
	p.BulkLoad(keys, vals)

	store := &Orchestrator[K]{
		primary:         p,
		deltaActive:     delta.New[K](),
		deltaInflight:   delta.New[K](),
		buf:             newBuffers[K](),
		opts:            opts,
		initialDataSize: len(data),
	}
	store.sched = newScheduler(len(data), opts)
	store.drainer = newDrainer(store)

	eg := &errgroup.Group{}
	store.drainer.start(eg)
	store.eg = eg

	build_time := time.Since(start)
	slog.Debug("hybrid: build complete", "n", len(data), "elapsed", build_time)
	return store, build_time
}

// Insert appends (key, val) to the active buffer and the active delta
// index, then asks the scheduler whether a drain should trigger. If the
// read-heavy bypass policy is active, the write instead goes straight to
// the primary store.
func (o *Orchestrator[K]) Insert(key K, val uint64) error {
	if o.isClosed() {
		return ErrClosed
	}
	if o.sched.drainFailed.Load() {
		return ErrDrainFailed
	}

	if o.sched.shouldBypass() {
		o.muPrimary.Lock()
		o.primary.Insert(key, val)
		o.muPrimary.Unlock()
		o.sched.recordInsert()
		return nil
	}

	o.muActive.Lock()
	o.buf.append(key, val)
	o.deltaActive.Insert(key, val)
	o.buf.checkActiveAgreement(o.deltaActive.Size())
	o.sched.pgmSize.Store(int64(o.buf.size()))
	o.sched.recordInsert()
	trigger := o.buf.size() >= o.sched.effectiveThreshold()
	o.muActive.Unlock()

	if trigger {
		o.triggerDrain()
	}
	return nil
}

// triggerDrain attempts to swap the active and inflight tiers and hand the
// drained batch to the background worker. Only the caller that wins the
// atomic test-and-set on isFlushing performs the swap; everyone else
// returns immediately.
func (o *Orchestrator[K]) triggerDrain() {
	if !o.sched.tryBeginDrain() {
		return
	}

	// Fixed lock order: inflight before active, to avoid deadlock against
	// any reader path, none of which ever needs to hold both at once.
	o.muInflight.Lock()
	o.muActive.Lock()

	if !o.buf.canSwap() {
		// The previous drain hasn't finished. Back off without swapping;
		// the active buffer keeps growing until the drainer catches up.
		o.muActive.Unlock()
		o.muInflight.Unlock()
		o.sched.abortDrain()
		return
	}

	batch := o.buf.swap()
	o.deltaInflight, o.deltaActive = o.deltaActive, delta.New[K]()
	o.sched.pgmSize.Store(0)
	o.sched.resetWindow()

	o.muActive.Unlock()
	o.muInflight.Unlock()

	o.drainer.enqueue(batch)
}

// Lookup returns the value bound to key, or NotFound if none exists.
// Search order is the active delta, then the inflight delta (only while
// a drain is in flight), then the primary store — freshest first.
func (o *Orchestrator[K]) Lookup(key K) uint64 {
	o.sched.recordLookup()

	o.muActive.RLock()
	v, ok := o.deltaActive.Find(key)
	o.muActive.RUnlock()
	if ok {
		return v
	}

	// Hold muInflight across both the inflight check and the primary
	// check, nesting muPrimary inside it in the same order the drainer
	// takes them: a concurrent merge-then-clear can never be observed
	// half-done, so a miss on inflight is never paired with a stale miss
	// on primary for a key that was actually in flight.
	o.muInflight.RLock()
	if o.sched.isFlushing.Load() {
		v, ok = o.deltaInflight.Find(key)
		if ok {
			o.muInflight.RUnlock()
			return v
		}
	}

	o.muPrimary.RLock()
	v, ok = o.primary.Find(key)
	o.muPrimary.RUnlock()
	o.muInflight.RUnlock()
	if ok {
		return v
	}
	return NotFound
}

// RangeSum returns the sum of values whose keys fall in [lo, hi],
// summing contributions from the active delta, the inflight delta (if a
// drain is in flight) and the primary store. The three tiers partition
// the key space at any quiescent point, so naive summation never
// double-counts — but only if the inflight-then-primary pair is read as
// one critical section, matching how the drainer writes them (see
// drainer.go's runOne): otherwise a merge landing between the two reads
// would put the same key in both tiers' answers.
func (o *Orchestrator[K]) RangeSum(lo, hi K) uint64 {
	var sum uint64

	o.muActive.RLock()
	o.deltaActive.RangeScan(lo, hi, func(_ K, v uint64) bool { sum += v; return true })
	o.muActive.RUnlock()

	o.muInflight.RLock()
	if o.sched.isFlushing.Load() {
		o.deltaInflight.RangeScan(lo, hi, func(_ K, v uint64) bool { sum += v; return true })
	}
	o.muPrimary.RLock()
	o.primary.RangeScan(lo, hi, func(_ K, v uint64) bool { sum += v; return true })
	o.muPrimary.RUnlock()
	o.muInflight.RUnlock()

	return sum
}

// Size reports the sum of the three stores' reported byte footprints.
func (o *Orchestrator[K]) Size() int {
	o.muActive.RLock()
	activeSize := o.deltaActive.Size()
	o.muActive.RUnlock()

	o.muInflight.RLock()
	inflightSize := o.deltaInflight.Size()
	o.muInflight.RUnlock()

	o.muPrimary.RLock()
	primarySize := o.primary.Size()
	o.muPrimary.RUnlock()

	const approxDeltaEntryWidth = 24 // per-entry estimate: raw pair plus btree node overhead
	return primarySize + (activeSize+inflightSize)*approxDeltaEntryWidth
}

// Variants reports a stable, ordered variant-identification list:
// [searcher_name, pgm_error, threshold_pct, mode, "flushes:<n>"].
func (o *Orchestrator[K]) Variants() []string {
	return []string{
		o.opts.Searcher,
		strconv.Itoa(o.opts.PGMError),
		strconv.Itoa(o.opts.ThresholdPct),
		o.opts.Mode.String(),
		fmt.Sprintf("flushes:%d", o.sched.flushCount.Load()),
	}
}

// Applicable reports whether this configuration can serve the given
// workload shape (unique keys, single- vs multi-threaded writers).
func (o *Orchestrator[K]) Applicable(unique, multithread bool) bool {
	return applicable(unique, multithread, o.opts.Searcher)
}

// FlushCount, LookupsSinceFlush, InsertsSinceFlush and IsFlushing expose
// the scheduler's counters for observability and testing.
func (o *Orchestrator[K]) FlushCount() uint64        { return o.sched.flushCount.Load() }
func (o *Orchestrator[K]) LookupsSinceFlush() uint64 { return o.sched.lookupsSinceFlush.Load() }
func (o *Orchestrator[K]) InsertsSinceFlush() uint64 { return o.sched.insertsSinceFlush.Load() }
func (o *Orchestrator[K]) IsFlushing() bool          { return o.sched.isFlushing.Load() }
func (o *Orchestrator[K]) PgmSize() int64            { return o.sched.pgmSize.Load() }

func (o *Orchestrator[K]) isClosed() bool {
	o.closeM.Lock()
	defer o.closeM.Unlock()
	return o.closed
}

// Close shuts the drainer down: it signals shutdown, lets the drainer
// finish any drain already in flight, and joins it. Any unflushed active
// buffer contents remain queryable up until this call returns but are
// not persisted; there is no durability tier.
func (o *Orchestrator[K]) Close() error {
	o.closeM.Lock()
	if o.closed {
		o.closeM.Unlock()
		return nil
	}
	o.closed = true
	o.closeM.Unlock()

	o.drainer.shutdown()
	return o.eg.Wait()
}
