package profiler

import (
	"errors"
	"fmt"
)

// ErrExhausted indicates the pool had no free slots at allocation time.
// Never returned from the public span/event API (callers must not be able
// to observe exhaustion except via the one-shot warning log and dropped
// records, per §4.1/§7): it exists for internal bookkeeping and tests.
var ErrExhausted = errors.New("profiler: pool exhausted")

// ErrInvalidBufferSize is the cause wrapped by Initialize/InitializeWithBuffer
// when asked to build a pool too small to ever hold an open span (every pool
// wastes slot 0, so a usable pool needs at least 2 records).
var ErrInvalidBufferSize = errors.New("profiler: invalid buffer size")

// InconsistentStateError is reported (logged, not returned — finalize
// always proceeds) when Finalize observes that the shape invariants of
// §3.6 were violated: a free-list count that doesn't match the configured
// capacity, or a free slot with a nonzero sibling link. A root list that
// is still non-empty at Finalize is drained, not reported.
type InconsistentStateError struct {
	Message string
	// Found and Expected are populated for the free-list count mismatch
	// case; both are zero for the other cases.
	Found, Expected int
}

func (e *InconsistentStateError) Error() string {
	if e.Expected != 0 || e.Found != 0 {
		return fmt.Sprintf("profiler: %s (found %d of %d)", e.Message, e.Found, e.Expected)
	}
	return "profiler: " + e.Message
}

// SelfReferenceError is reported when per-thread finalization detects that
// ending the current open block did not change the thread-local current
// slot — a programming error that would otherwise livelock the cleanup
// loop (§6.4/§7).
type SelfReferenceError struct {
	Slot uint32
}

func (e *SelfReferenceError) Error() string {
	return fmt.Sprintf("profiler: unrecoverable self-reference in block %d during thread finalize", e.Slot)
}

// wrapError mirrors the teacher package's WrapError helper: attach a
// message to a cause while preserving errors.Is/errors.As compatibility.
func wrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}
