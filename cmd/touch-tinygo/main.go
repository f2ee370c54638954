//go:build baremetal

// Command touch-tinygo reads two capacitive pads on a microcontroller and
// prints their readings over the serial console.
//
//	tinygo flash -target=pico ./cmd/touch-tinygo
package main

import "time"

const (
	threshold = 8
	interval  = 20 * time.Millisecond
)

func main() {
	left, right := pads()
	var wasLeft, wasRight bool
	for {
		l, r := left.Read(), right.Read()
		isLeft, isRight := l >= threshold, r >= threshold
		if isLeft != wasLeft || isRight != wasRight {
			println("left", l, isLeft, "right", r, isRight)
			wasLeft, wasRight = isLeft, isRight
		}
		time.Sleep(interval)
	}
}
