package profiler

// Sink receives one complete 64-byte record at a time, in the exact wire
// layout described by §6.2 — the slice is only valid for the duration of
// the call and must be copied if retained. The drain goroutine is the sole
// caller; a Sink must not block on anything the engine itself depends on,
// or it will stall every thread's drain progress (§6.1).
type Sink func(record []byte)
