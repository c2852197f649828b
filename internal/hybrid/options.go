package hybrid

import "log/slog"

// Mode selects how the scheduler computes its drain threshold.
type Mode int

const (
	// ADAPTIVE derives the threshold from the recent lookup/insert mix.
	ADAPTIVE Mode = iota
	// FIXED always drains at base_count.
	FIXED
)

func (m Mode) String() string {
	if m == FIXED {
		return "FIXED"
	}
	return "ADAPTIVE"
}

const (
	defaultThresholdPct = 5
	defaultBatchSize    = 1000
	defaultMode         = ADAPTIVE
)

// Opts holds the orchestrator's construction parameters, accepted either
// as a positional list of optional integers (see FromArgs) or built
// directly, pairing a positional/flag-driven config surface with a
// defaulted Opts struct.
type Opts struct {
	// ThresholdPct is the base drain threshold as a percentage of the
	// initial data size. Values <= 0 are replaced with the default by both
	// FromArgs and Build.
	ThresholdPct int

	// BatchSize bounds the size of a sub-batch within a single drain. It is
	// accepted for contract-compatibility with incremental-drain variants;
	// this implementation drains a whole inflight batch in one step, so
	// BatchSize is exposed but not consulted during a drain.
	BatchSize int

	// Mode selects FIXED or ADAPTIVE threshold computation.
	Mode Mode

	// Bypass enables the read-heavy direct-to-primary policy as an opt-in
	// knob, not a default.
	Bypass bool

	// Searcher names the comparator search strategy in effect. It is a
	// pass-through label for Variants(); this package does not implement
	// multiple search strategies itself.
	Searcher string

	// PGMError is the PGM error-bound parameter, reported verbatim by
	// Variants() for benchmark-driver tagging.
	PGMError int
}

// DefaultOpts returns the production-sized defaults.
func DefaultOpts() *Opts {
	return &Opts{
		ThresholdPct: defaultThresholdPct,
		BatchSize:    defaultBatchSize,
		Mode:         defaultMode,
		Searcher:     "BinarySearch",
		PGMError:     64,
	}
}

// TestOpts returns a smaller configuration convenient for unit tests.
func TestOpts() *Opts {
	opts := DefaultOpts()
	opts.BatchSize = 50
	return opts
}

// FromArgs parses the positional-integer construction contract:
//
//	args[0] threshold_pct
//	args[1] batch_size (this slot is never read as a mode)
//	args[2] mode (0 = FIXED, any other value = ADAPTIVE)
//
// Fewer arguments are tolerated; missing trailing values keep their
// defaults. threshold_pct <= 0 is replaced with the default.
func FromArgs(args []int) *Opts {
	opts := DefaultOpts()

	if len(args) > 0 {
		if args[0] <= 0 {
			slog.Warn("hybrid: non-positive threshold_pct, substituting default", "got", args[0])
		} else {
			opts.ThresholdPct = args[0]
		}
	}
	if len(args) > 1 {
		opts.BatchSize = args[1]
	}
	if len(args) > 2 {
		if args[2] == 0 {
			opts.Mode = FIXED
		} else {
			opts.Mode = ADAPTIVE
		}
	}
	return opts
}

// applicable reports whether the orchestrator applies to a workload:
// unique keys, a single writer, and a searcher other than "LinearAVX".
func applicable(unique, multithread bool, searcher string) bool {
	return unique && !multithread && searcher != "LinearAVX"
}
