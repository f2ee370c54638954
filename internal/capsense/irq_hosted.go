//go:build !baremetal

package capsense

import "runtime"

// osThread cannot mask interrupts from userspace. It pins the calling
// goroutine to its OS thread so the Go scheduler does not migrate it
// mid-sample. The kernel and the Go runtime can still preempt the loop.
type osThread struct{}

func (osThread) Disable() State {
	runtime.LockOSThread()
	return 0
}

func (osThread) Restore(State) { runtime.UnlockOSThread() }

// CPU is the closest hosted equivalent of disabling interrupts. It gives no
// jitter guarantee: the sampling loop can be preempted at any point, and on
// Linux each sample is a system call, so hosted readings largely measure
// syscall latency rather than capacitance. Calibrate the touch threshold
// per machine.
var CPU Interrupts = osThread{}
