// Package profiler is an in-process hierarchical profiling engine: a
// fixed-capacity pool of 64-byte records, allocated from a lock-free tagged
// free list, assembled into a per-thread tree of currently-open spans, and
// streamed through a single background I/O thread to a user-supplied sink.
//
// # Architecture
//
// [Engine] owns the record pool (a lock-free, ABA-safe free list over a
// contiguous buffer, allocated by [Initialize] or supplied by the caller to
// [InitializeWithBuffer]), the per-thread open span tree
// (maintained without locks because each goroutine owns its own open path,
// see [Engine.Begin]/[Engine.End]), the lock-free root handoff list that
// completed trees are published to, and the background drain goroutine that
// performs a reparenting walk over each completed tree before streaming it
// to the sink and recycling its memory back to the pool.
//
// # Thread Safety
//
// All public entry points ([Engine.Begin], [Engine.End], [Engine.Update],
// [Engine.EndFrame], [Engine.Log], [Engine.TryLock], [Engine.Lock],
// [Engine.Unlock], [Engine.Wait], [Engine.Signal]) are safe to call from any
// goroutine concurrently. None of them take a lock; allocation, release, and
// root-list handoff are wait-free/lock-free CAS loops. The per-goroutine
// open path itself is unsynchronized by design: only the owning goroutine
// reads or writes its open-tree slots until [Engine.End] publishes them to
// the root list.
//
// # Collaborators
//
// A [Clock], [ThreadIDSource], and [ProcessorIDSource] are injected via
// [Option]s ([WithClock], [WithThreadIDSource], [WithProcessorIDSource]);
// package sysid provides OS-backed defaults for the latter two. The sink is
// a plain [Sink] function supplied via [WithSink]; package recordio
// provides a decoder for the fixed wire format it receives. Logging goes
// through the [Logger] interface (see [SetLogger] and [WithLogger]);
// package profilerzerolog adapts [github.com/rs/zerolog]. Package
// promexport exposes pool occupancy as Prometheus collectors via
// [WithMetricsRegisterer].
//
// # Usage
//
//	eng, err := profiler.Initialize("myapp", 4096,
//	    profiler.WithSink(func(b []byte) { file.Write(b) }),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Finalize()
//	eng.Enable(true)
//
//	eng.Begin("render_frame")
//	defer eng.End()
//	...
package profiler
