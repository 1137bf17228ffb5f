//go:build windows

package sysid

import "golang.org/x/sys/windows"

func (ThreadIDSource) ThreadID() uint32 {
	return windows.GetCurrentThreadId()
}

// ProcessorID reports the logical processor the calling thread was on at
// the time of the call via GetCurrentProcessorNumber; like its Unix
// counterpart this is a snapshot and may be stale by the time the caller
// observes it.
func (ProcessorIDSource) ProcessorID() uint32 {
	return windows.GetCurrentProcessorNumber()
}
