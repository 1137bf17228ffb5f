// Package sysid provides OS-backed profiler.ThreadIDSource and
// profiler.ProcessorIDSource implementations, recovering the real OS
// thread id and logical CPU index instead of the portable fallbacks:
// profiler.DefaultThreadIDSource (the goroutine id) and
// profiler.DefaultProcessorIDSource (always 0).
package sysid

// ThreadIDSource reports the calling OS thread's id.
type ThreadIDSource struct{}

// ProcessorIDSource reports the logical CPU the caller is currently
// scheduled on. The value is a snapshot: nothing pins the calling
// goroutine to the processor it reports, so it may be stale by the time
// the caller observes it (the same caveat the original implementation's
// sched_getcpu-based accessor carries).
type ProcessorIDSource struct{}
