//go:build baremetal

package capsense

import "runtime/interrupt"

type cpuInterrupts struct{}

func (cpuInterrupts) Disable() State { return State(interrupt.Disable()) }

func (cpuInterrupts) Restore(s State) { interrupt.Restore(interrupt.State(s)) }

// CPU masks hardware interrupts for the duration of a reading.
var CPU Interrupts = cpuInterrupts{}
