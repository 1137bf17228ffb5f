package profiler

import "sync"

// ThreadLocal is the abstract thread-local-storage accessor the engine
// uses to track, per calling thread, the slot index of the innermost
// currently-open span (§3.5/§6.4's "thread-local current block index").
// It is an external collaborator: Go has no native TLS, so the default
// implementation below keys by goroutine id. Callers running under a
// genuine one-goroutine-per-OS-thread model (e.g. after
// runtime.LockOSThread) may supply their own ThreadLocal to avoid the
// lookup, or to key by a caller-defined notion of "thread" instead.
//
// Get/Set are called only by the goroutine that owns the slot they
// describe (see doc.go's Thread Safety section), so no further
// synchronization of the returned/stored value is required beyond the
// ThreadLocal implementation's own bookkeeping.
type ThreadLocal interface {
	Get() uint32
	Set(slot uint32)
}

// goroutineThreadLocal is the default ThreadLocal, keyed by the id
// goroutineID recovers from runtime.Stack. Entries for slot 0 (no open
// span) are deleted rather than stored, so long-lived goroutine pools
// don't accumulate stale zero entries.
type goroutineThreadLocal struct {
	m sync.Map // uint64 goroutine id -> uint32 slot
}

func newGoroutineThreadLocal() *goroutineThreadLocal {
	return &goroutineThreadLocal{}
}

func (t *goroutineThreadLocal) Get() uint32 {
	v, ok := t.m.Load(goroutineID())
	if !ok {
		return 0
	}
	return v.(uint32)
}

func (t *goroutineThreadLocal) Set(slot uint32) {
	id := goroutineID()
	if slot == 0 {
		t.m.Delete(id)
		return
	}
	t.m.Store(id, slot)
}
