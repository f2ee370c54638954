//go:build baremetal

package gpio

import "machine"

// MachinePin adapts a TinyGo machine.Pin to capsense.Pin.
type MachinePin struct {
	Pin machine.Pin
}

func (p MachinePin) Low()    { p.Pin.Low() }
func (p MachinePin) Output() { p.Pin.Configure(machine.PinConfig{Mode: machine.PinOutput}) }
func (p MachinePin) Get() bool {
	return p.Pin.Get()
}

func (p MachinePin) InputPullup() {
	p.Pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
}
