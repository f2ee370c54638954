// Package logic turns capacitive readings into debounced touch events.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// State represents the logical state of a touch pad.
type State string

const (
	StateTouched  State = "TOUCHED"
	StateReleased State = "RELEASED"
)

// EventType represents a state transition event.
type EventType string

const (
	EventTouch   EventType = "TOUCH"
	EventRelease EventType = "RELEASE"
)

// SensorState is the stable state of one named sensor.
type SensorState struct {
	Name  string
	State State
}

// Event represents a state transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Sensor    string
	Reading   uint8
	// States holds the stable state of every sensor after the transition,
	// in sensor order.
	States []SensorState
}

// ChannelState tracks debounce state for a single sensor.
type ChannelState struct {
	// Current stable (debounced) state
	Stable State
	// Pending state during debounce
	Pending State
	// Time when pending state was first observed
	PendingSince time.Time
	// Whether we have established a baseline
	Baselined bool
	// Most recent raw reading
	Reading uint8
}

// Input represents one round of readings, one per sensor in detector order.
type Input struct {
	Readings []uint8
	Time     time.Time
}

// SensorCounts tracks the number of events for one sensor since startup.
type SensorCounts struct {
	Name    string
	Touch   int
	Release int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    []SensorCounts
}
