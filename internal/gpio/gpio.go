// Package gpio binds capacitive sense pins to real hardware.
// On Linux it uses the GPIO character device; on TinyGo boards it wraps
// machine.Pin.
package gpio

// DefaultChip is the GPIO character device used on a Raspberry Pi.
const DefaultChip = "gpiochip0"

// Default pad offsets (BCM numbering).
const (
	DefaultPinLeft  = 17
	DefaultPinRight = 27
)
