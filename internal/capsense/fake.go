package capsense

// Mode is the simulated electrical mode of a FakePin.
type Mode int

const (
	ModeInput Mode = iota // floating input, the power-on default
	ModeOutput
	ModeInputPullup
)

func (m Mode) String() string {
	switch m {
	case ModeOutput:
		return "output"
	case ModeInputPullup:
		return "input-pullup"
	default:
		return "input"
	}
}

// FakePin is a simulated pin whose rise time is scripted.
type FakePin struct {
	// RiseAfter is the number of samples that read low after the pull-up is
	// enabled. Zero rises immediately; a negative value never rises.
	RiseAfter int

	// Mode and Level hold the simulated direction and driven level.
	Mode  Mode
	Level bool

	// Ops records every call in order ("low", "output", "pullup", "get").
	Ops []string

	// IRQ, if set, is consulted on every sample; samples taken while it is
	// not disabled are counted in UnmaskedSamples.
	IRQ             *FakeInterrupts
	UnmaskedSamples int

	samples int
}

// NewFakePin creates a FakePin that reads low for riseAfter samples.
func NewFakePin(riseAfter int) *FakePin {
	return &FakePin{RiseAfter: riseAfter}
}

// Low drives the simulated level low.
func (f *FakePin) Low() {
	f.Ops = append(f.Ops, "low")
	f.Level = false
}

// Output switches the simulated pin to output mode.
func (f *FakePin) Output() {
	f.Ops = append(f.Ops, "output")
	f.Mode = ModeOutput
}

// InputPullup switches to input with pull-up and restarts the rise timer.
func (f *FakePin) InputPullup() {
	f.Ops = append(f.Ops, "pullup")
	f.Mode = ModeInputPullup
	f.Level = true
	f.samples = 0
}

// Get returns the simulated input level.
func (f *FakePin) Get() bool {
	f.Ops = append(f.Ops, "get")
	if f.IRQ != nil && !f.IRQ.Disabled {
		f.UnmaskedSamples++
	}
	switch f.Mode {
	case ModeOutput:
		return f.Level
	case ModeInputPullup:
		high := f.RiseAfter >= 0 && f.samples >= f.RiseAfter
		f.samples++
		return high
	default:
		return false
	}
}

// Reset clears the recorded operations and returns the pin to its
// power-on state, keeping RiseAfter.
func (f *FakePin) Reset() {
	f.Ops = nil
	f.Mode = ModeInput
	f.Level = false
	f.UnmaskedSamples = 0
	f.samples = 0
}

// FakeInterrupts records interrupt masking.
type FakeInterrupts struct {
	Disabled bool
	Disables int
	Restores int

	// Nested is set if Disable is called while already disabled.
	Nested bool

	// Restored holds the states passed to Restore, in order.
	Restored []State
}

// Disable marks interrupts disabled and returns a state numbered by call.
func (f *FakeInterrupts) Disable() State {
	if f.Disabled {
		f.Nested = true
	}
	f.Disabled = true
	f.Disables++
	return State(f.Disables)
}

// Restore marks interrupts enabled.
func (f *FakeInterrupts) Restore(s State) {
	f.Disabled = false
	f.Restores++
	f.Restored = append(f.Restored, s)
}

// FakeRegister is a simulated 8-bit register.
type FakeRegister struct {
	Value  uint8
	Writes int

	onGet func() uint8
	onSet func()
}

// Get returns the register value.
func (r *FakeRegister) Get() uint8 {
	if r.onGet != nil {
		r.Value = r.onGet()
	}
	return r.Value
}

// Set stores v.
func (r *FakeRegister) Set(v uint8) {
	r.Value = v
	r.Writes++
	if r.onSet != nil {
		r.onSet()
	}
}

// FakePort simulates the PORT/DDR/PIN registers of one I/O port. A bit
// configured as input with pull-up reads low for RiseAfter[bit] samples of
// PIN, then high. Bits missing from RiseAfter rise immediately; negative
// values never rise.
type FakePort struct {
	PORT FakeRegister
	DDR  FakeRegister
	PIN  FakeRegister

	RiseAfter map[uint8]int

	samples map[uint8]int
}

// NewFakePort creates a FakePort with all bits as floating inputs.
func NewFakePort() *FakePort {
	p := &FakePort{
		RiseAfter: make(map[uint8]int),
		samples:   make(map[uint8]int),
	}
	p.PORT.onSet = p.resetIdle
	p.DDR.onSet = p.resetIdle
	p.PIN.onGet = p.sample
	return p
}

// Port returns the registers as a Port.
func (p *FakePort) Port() Port {
	return Port{PORT: &p.PORT, DDR: &p.DDR, PIN: &p.PIN}
}

// OutputLow reports whether the bits in mask are all outputs driven low.
func (p *FakePort) OutputLow(mask uint8) bool {
	return p.DDR.Value&mask == mask && p.PORT.Value&mask == 0
}

func (p *FakePort) pullups() uint8 {
	return p.PORT.Value &^ p.DDR.Value
}

// resetIdle restarts the rise timer of every bit not currently pulled up.
func (p *FakePort) resetIdle() {
	up := p.pullups()
	for i := 0; i < 8; i++ {
		bit := uint8(1) << i
		if up&bit == 0 {
			p.samples[bit] = 0
		}
	}
}

func (p *FakePort) sample() uint8 {
	v := p.PORT.Value & p.DDR.Value
	up := p.pullups()
	for i := 0; i < 8; i++ {
		bit := uint8(1) << i
		if up&bit == 0 {
			continue
		}
		rise := p.RiseAfter[bit]
		if rise >= 0 && p.samples[bit] >= rise {
			v |= bit
		}
		p.samples[bit]++
	}
	return v
}
