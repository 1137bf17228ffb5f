package profiler

import (
	"sync/atomic"
	"unsafe"
)

// fakeClock is a deterministic Clock for tests: Now() returns whatever was
// last set via set, defaulting to 0.
type fakeClock struct {
	now atomic.Int64
}

func (c *fakeClock) Now() int64            { return c.now.Load() }
func (c *fakeClock) TicksPerSecond() int64 { return 1_000_000_000 }
func (c *fakeClock) set(v int64)           { c.now.Store(v) }
func (c *fakeClock) advance(d int64) int64 { return c.now.Add(d) }

// fakeProcessorSource lets tests simulate migration by changing the
// reported processor out from under an open span.
type fakeProcessorSource struct {
	id atomic.Uint32
}

func (p *fakeProcessorSource) ProcessorID() uint32 { return p.id.Load() }
func (p *fakeProcessorSource) set(id uint32)       { p.id.Store(id) }

// fakeThreadSource assigns every call the same fixed id, so single-goroutine
// tests get deterministic Record.Thread values regardless of the real
// goroutine id.
type fakeThreadSource struct{ id uint32 }

func (t fakeThreadSource) ThreadID() uint32 { return t.id }

// captureSink accumulates every record handed to it as a copy (the slice
// the engine passes in is reused immediately after the call returns).
type captureSink struct {
	records [][recordSize]byte
}

func (s *captureSink) sink(b []byte) {
	var cp [recordSize]byte
	copy(cp[:], b)
	s.records = append(s.records, cp)
}

func (s *captureSink) asRecords() []Record {
	out := make([]Record, len(s.records))
	for i := range s.records {
		out[i] = *(*Record)(unsafe.Pointer(&s.records[i][0]))
	}
	return out
}
