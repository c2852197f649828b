package hybrid

import "sync/atomic"

// scheduler decides, on every insert, whether a swap+drain should
// trigger, and holds the process-lifetime counters (pgm_size,
// flush_count, lookups_since_flush, inserts_since_flush, is_flushing).
// All counters are atomic with relaxed ordering except isFlushing,
// which uses compare-and-swap to publish drain ownership.
type scheduler struct {
	mode      Mode
	baseCount int
	bypass    bool

	pgmSize           atomic.Int64
	flushCount        atomic.Uint64
	lookupsSinceFlush atomic.Uint64
	insertsSinceFlush atomic.Uint64
	isFlushing        atomic.Bool
	drainFailed       atomic.Bool
}

// newScheduler derives base_count from initial*pct/100/10, clamped to a
// minimum of 1 to guarantee progress. The /10 damping keeps the initial
// threshold well below the raw percentage of the bulk-loaded data size,
// so early inserts don't have to wait for a huge batch before the first
// drain fires; see DESIGN.md for the reasoning.
func newScheduler(initialDataSize int, opts *Opts) *scheduler {
	base := initialDataSize * opts.ThresholdPct / 100 / 10
	if base < 1 {
		base = 1
	}
	return &scheduler{mode: opts.Mode, baseCount: base, bypass: opts.Bypass}
}

func (s *scheduler) recordLookup() { s.lookupsSinceFlush.Add(1) }
func (s *scheduler) recordInsert() { s.insertsSinceFlush.Add(1) }

// effectiveThreshold computes the value the active buffer's size is
// compared against. In FIXED mode this is always baseCount; in ADAPTIVE
// mode it shifts with the recent lookup/insert ratio once enough
// activity has accumulated to make the ratio meaningful.
func (s *scheduler) effectiveThreshold() int {
	if s.mode == FIXED {
		return s.baseCount
	}

	l := s.lookupsSinceFlush.Load()
	i := s.insertsSinceFlush.Load()
	n := l + i
	if n <= 1000 {
		return s.baseCount
	}

	r := float64(l) / float64(n)
	switch {
	case r > 0.8:
		return s.baseCount / 2
	case r < 0.2:
		return s.baseCount * 2
	default:
		return s.baseCount
	}
}

// shouldBypass reports whether the read-heavy bypass knob (opt-in only)
// should redirect this insert straight to the primary store instead of
// the delta tier.
func (s *scheduler) shouldBypass() bool {
	if !s.bypass {
		return false
	}
	l := s.lookupsSinceFlush.Load()
	i := s.insertsSinceFlush.Load()
	total := l + i
	if total == 0 {
		return false
	}
	return float64(l)/float64(total) > 0.7
}

// tryBeginDrain performs a single atomic test-and-set: exactly one
// caller observes a false->true transition and thus owns the subsequent
// swap+drain. Everyone else returns immediately.
func (s *scheduler) tryBeginDrain() bool {
	return s.isFlushing.CompareAndSwap(false, true)
}

// abortDrain releases ownership without having swapped: a drain is
// already in flight, so this caller backs off and the writer proceeds
// without blocking.
func (s *scheduler) abortDrain() {
	s.isFlushing.Store(false)
}

// resetWindow zeroes the lookup/insert counters at swap time, not at
// drain completion, so the window measures activity between swaps.
func (s *scheduler) resetWindow() {
	s.lookupsSinceFlush.Store(0)
	s.insertsSinceFlush.Store(0)
}

// failDrainPermanently marks the sticky fail-stop state a panicked bulk
// insert leaves behind: isFlushing stays true forever (no further drain
// is ever attempted), and drainFailed lets Insert surface that state to
// callers instead of them discovering it only as stalled growth.
func (s *scheduler) failDrainPermanently() {
	s.drainFailed.Store(true)
}
