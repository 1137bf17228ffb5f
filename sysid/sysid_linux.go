//go:build linux

package sysid

import "golang.org/x/sys/unix"

func (ThreadIDSource) ThreadID() uint32 {
	return uint32(unix.Gettid())
}

func (ProcessorIDSource) ProcessorID() uint32 {
	cpu, err := unix.SchedGetcpu()
	if err != nil {
		return 0
	}
	return uint32(cpu)
}
