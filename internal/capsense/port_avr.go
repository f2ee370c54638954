//go:build avr

package capsense

import "device/avr"

// PortB is the AVR port that carries the fixed-port sensor pins.
var PortB = Port{
	PORT: avr.PORTB,
	DDR:  avr.DDRB,
	PIN:  avr.PINB,
}
