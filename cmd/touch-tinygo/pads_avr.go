//go:build avr

package main

import "github.com/sweeney/touch-sensor/internal/capsense"

// On AVR the pads sit on the fixed PORTB bits, read without the Pin
// indirection.
func pads() (capsense.Reader, capsense.Reader) {
	left := capsense.NewPortSensor(capsense.PortB, capsense.FixedPinA, nil)
	right := capsense.NewPortSensor(capsense.PortB, capsense.FixedPinB, nil)
	return left, right
}
