package hybrid

import "errors"

var (
	// ErrClosed is returned if Insert is called after Close has begun,
	// turning what would otherwise be a race against a closing background
	// worker into a checked error instead of silently corrupting state.
	ErrClosed = errors.New("hybrid: orchestrator closed")

	// ErrDrainFailed is returned by Insert once a drain's bulk insert has
	// panicked: the index remains queryable (Lookup/RangeSum are
	// unaffected) but permanently refuses further writes, since the
	// active/inflight tiers would otherwise grow without ever draining
	// again.
	ErrDrainFailed = errors.New("hybrid: primary bulk insert failed, draining disabled")
)
