//go:build linux && !baremetal

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// Chip is an open GPIO character device.
type Chip struct {
	chip  *gpiocdev.Chip
	lines []*LinePin
}

// OpenChip opens the named GPIO chip (e.g. "gpiochip0").
func OpenChip(name string) (*Chip, error) {
	chip, err := gpiocdev.NewChip(name)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	return &Chip{chip: chip}, nil
}

// Pin requests the line at offset as an output driven low.
func (c *Chip) Pin(offset int) (*LinePin, error) {
	line, err := c.chip.RequestLine(offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("request pin %d: %w", offset, err)
	}
	p := &LinePin{line: line, offset: offset, output: true}
	c.lines = append(c.lines, p)
	return p, nil
}

// Close leaves every requested line as an output driven low, then releases
// the lines and the chip.
func (c *Chip) Close() error {
	var errs []error

	for _, p := range c.lines {
		if err := p.line.Reconfigure(gpiocdev.AsOutput(0)); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", p.offset, err))
		}
		if err := p.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", p.offset, err))
		}
	}
	c.lines = nil

	if c.chip != nil {
		if err := c.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// LinePin drives a single requested line. It implements capsense.Pin.
//
// The capsense pin operations cannot fail, so kernel errors are held and
// reported by Err rather than returned.
type LinePin struct {
	line   *gpiocdev.Line
	offset int
	output bool
	err    error
}

// Offset returns the line offset on its chip.
func (p *LinePin) Offset() int { return p.offset }

// Err returns the first error since the last call to Err, and clears it.
func (p *LinePin) Err() error {
	err := p.err
	p.err = nil
	return err
}

func (p *LinePin) fail(op string, err error) {
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("pin %d %s: %w", p.offset, op, err)
	}
}

// Low drives the line low if it is an output. An input line has its pull-up
// removed by the next Output call, which always drives low.
func (p *LinePin) Low() {
	if p.output {
		p.fail("set low", p.line.SetValue(0))
	}
}

// Output reconfigures the line as an output driven low.
func (p *LinePin) Output() {
	p.fail("output", p.line.Reconfigure(gpiocdev.AsOutput(0)))
	p.output = true
}

// InputPullup reconfigures the line as an input with pull-up bias.
func (p *LinePin) InputPullup() {
	p.fail("input pull-up", p.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp))
	p.output = false
}

// Get returns the line level. A failed read reports low, which reads as
// maximum capacitance rather than a phantom release.
func (p *LinePin) Get() bool {
	v, err := p.line.Value()
	if err != nil {
		p.fail("read", err)
		return false
	}
	return v != 0
}
