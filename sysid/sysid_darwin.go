//go:build darwin

package sysid

import "golang.org/x/sys/unix"

// ThreadID reports the kernel thread id via the thread_selfid(2) syscall;
// Darwin has no gettid(2).
func (ThreadIDSource) ThreadID() uint32 {
	id, _, _ := unix.Syscall(unix.SYS_THREAD_SELFID, 0, 0, 0)
	return uint32(id)
}

// ProcessorID always reports 0: Darwin exposes no user-space
// sched_getcpu(3) equivalent without cgo, so migration detection (see
// profiler.Engine.Update) is effectively disabled on this platform unless
// a caller supplies its own profiler.ProcessorIDSource.
func (ProcessorIDSource) ProcessorID() uint32 {
	return 0
}
