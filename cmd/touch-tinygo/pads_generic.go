//go:build baremetal && !avr

package main

import (
	"machine"

	"github.com/sweeney/touch-sensor/internal/capsense"
	"github.com/sweeney/touch-sensor/internal/gpio"
)

func pads() (capsense.Reader, capsense.Reader) {
	left := capsense.NewSensor(gpio.MachinePin{Pin: machine.Pin(capsense.FixedPinA)}, nil)
	right := capsense.NewSensor(gpio.MachinePin{Pin: machine.Pin(capsense.FixedPinB)}, nil)
	return left, right
}
