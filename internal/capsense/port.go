package capsense

import "time"

// Register is an 8-bit memory-mapped I/O register. TinyGo's
// *volatile.Register8 satisfies it.
type Register interface {
	Get() uint8
	Set(uint8)
}

// Port groups the three registers that control one 8-bit I/O port.
type Port struct {
	PORT Register // output level, or pull-up enable when the bit is an input
	DDR  Register // direction, 1 = output
	PIN  Register // input level
}

func (p Port) clear(r Register, mask uint8) { r.Set(r.Get() &^ mask) }
func (p Port) set(r Register, mask uint8)   { r.Set(r.Get() | mask) }

// PortPin is a Pin backed by one bit of a Port.
type PortPin struct {
	Port Port
	Mask uint8
}

// Low clears the output bit.
func (p PortPin) Low() { p.Port.clear(p.Port.PORT, p.Mask) }

// Output sets the direction bit.
func (p PortPin) Output() { p.Port.set(p.Port.DDR, p.Mask) }

// InputPullup clears the direction bit, then sets the output bit to enable
// the pull-up.
func (p PortPin) InputPullup() {
	p.Port.clear(p.Port.DDR, p.Mask)
	p.Port.set(p.Port.PORT, p.Mask)
}

// Get reports whether the input bit is set.
func (p PortPin) Get() bool { return p.Port.PIN.Get()&p.Mask != 0 }

// Fixed-port pin assignments. FixedPinA maps to bit 7 of the port; every
// other pin number maps to bit 6.
const (
	FixedPinA = 2
	FixedPinB = 3

	fixedMaskA uint8 = 1 << 7
	fixedMaskB uint8 = 1 << 6
)

// FixedMask returns the port bit used for pin by PortSensor.
func FixedMask(pin int) uint8 {
	if pin == FixedPinA {
		return fixedMaskA
	}
	return fixedMaskB
}

// PortSensor is the fast-path form of Sensor for the two hard-wired pins of
// a single port. It touches the registers directly instead of going through
// the Pin interface.
type PortSensor struct {
	port   Port
	mask   uint8
	irq    Interrupts
	settle time.Duration
	sleep  func(time.Duration)
}

// NewPortSensor creates a PortSensor for pin on port. If irq is nil the
// platform interrupt controller is used.
func NewPortSensor(port Port, pin int, irq Interrupts) *PortSensor {
	if irq == nil {
		irq = CPU
	}
	return &PortSensor{
		port:   port,
		mask:   FixedMask(pin),
		irq:    irq,
		settle: DefaultSettle,
		sleep:  time.Sleep,
	}
}

// Read has the same contract as Sensor.Read.
func (s *PortSensor) Read() uint8 {
	port, mask := s.port, s.mask

	port.PORT.Set(port.PORT.Get() &^ mask)
	port.DDR.Set(port.DDR.Get() | mask)
	s.sleep(s.settle)

	state := s.irq.Disable()
	port.DDR.Set(port.DDR.Get() &^ mask)
	port.PORT.Set(port.PORT.Get() | mask)

	in := port.PIN
	cycles := uint8(MaxCycles)
	for i := uint8(0); i < MaxCycles; i++ {
		if in.Get()&mask != 0 {
			cycles = i
			break
		}
	}

	s.irq.Restore(state)

	port.PORT.Set(port.PORT.Get() &^ mask)
	port.DDR.Set(port.DDR.Get() | mask)

	return cycles
}
