// Package capsense measures capacitance on a digital pin by timing how long
// the pin takes to be pulled high after being discharged.
//
// A touch plate (or a bare wire) on the pin adds capacitance, so a touched pin
// rises more slowly and produces a larger reading. Readings are in the range
// [0, MaxCycles]: 0 means the pin rose immediately, MaxCycles means it did not
// rise within the sampling window (heavy capacitance or an open circuit).
package capsense

import "time"

// MaxCycles is the upper bound on a reading. It caps the sampling loop and so
// bounds the time spent with interrupts disabled.
const MaxCycles = 17

// DefaultSettle is how long the pin is held low to discharge before sampling.
const DefaultSettle = time.Millisecond

// Pin is a single digital I/O line.
type Pin interface {
	// Low sets the driven (output) level low. With the pin in input mode this
	// disables the pull-up.
	Low()

	// Output switches the pin to output mode.
	Output()

	// InputPullup switches the pin to input mode with the internal pull-up
	// resistor enabled.
	InputPullup()

	// Get returns the current input level.
	Get() bool
}

// State is an opaque interrupt mask returned by Interrupts.Disable.
type State uintptr

// Interrupts controls global interrupt servicing.
type Interrupts interface {
	// Disable suspends interrupt servicing and returns the previous state.
	Disable() State

	// Restore returns interrupt servicing to a state returned by Disable.
	Restore(State)
}

// Reader is anything that produces capacitive readings.
type Reader interface {
	Read() uint8
}

// Sensor reads capacitance on an arbitrary pin.
//
// Concurrent reads of the same pin must be serialized by the caller.
type Sensor struct {
	pin    Pin
	irq    Interrupts
	settle time.Duration
	sleep  func(time.Duration)
}

// NewSensor creates a Sensor on pin. If irq is nil the platform interrupt
// controller is used.
func NewSensor(pin Pin, irq Interrupts) *Sensor {
	if irq == nil {
		irq = CPU
	}
	return &Sensor{
		pin:    pin,
		irq:    irq,
		settle: DefaultSettle,
		sleep:  time.Sleep,
	}
}

// Read returns the number of samples taken before the pin was observed high,
// in [0, MaxCycles]. The pin is left in output mode, driven low.
func (s *Sensor) Read() uint8 {
	pin := s.pin

	// Discharge.
	pin.Low()
	pin.Output()
	s.sleep(s.settle)

	mask := s.irq.Disable()
	pin.InputPullup()

	cycles := uint8(MaxCycles)
	for i := uint8(0); i < MaxCycles; i++ {
		if pin.Get() {
			cycles = i
			break
		}
	}

	s.irq.Restore(mask)

	// Leave the line discharged so a touch bridging two pads does not carry
	// charge from this pin to the next one read.
	pin.Low()
	pin.Output()

	return cycles
}
