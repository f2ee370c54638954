//go:build !linux && !baremetal

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// Chip is not available on non-Linux platforms.
type Chip struct{}

// OpenChip returns an error on non-Linux platforms.
func OpenChip(name string) (*Chip, error) {
	return nil, errUnsupported
}

// Pin returns an error on non-Linux platforms.
func (c *Chip) Pin(offset int) (*LinePin, error) {
	return nil, errUnsupported
}

// Close is a no-op on non-Linux platforms.
func (c *Chip) Close() error {
	return nil
}

// LinePin is not available on non-Linux platforms.
type LinePin struct{}

func (p *LinePin) Offset() int  { return -1 }
func (p *LinePin) Err() error   { return errUnsupported }
func (p *LinePin) Low()         {}
func (p *LinePin) Output()      {}
func (p *LinePin) InputPullup() {}
func (p *LinePin) Get() bool    { return false }
