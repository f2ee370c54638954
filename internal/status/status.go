// Package status provides a thread-safe status tracker for the touch-sensor
// daemon. It is read by the HTTP handlers and by lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/touch-sensor/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	Chip        string
	PollMs      int64
	DebounceMs  int64
	HeartbeatMs int64
	Threshold   uint8
	Broker      string
	HTTPAddr    string
}

// Sensor is the tracked state of one pad.
type Sensor struct {
	Name    string
	State   logic.State
	Reading uint8
	Touch   int
	Release int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type; Sensors is never shared with the tracker.
type Snapshot struct {
	Sensors       []Sensor
	Baselined     bool
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update replaces the per-sensor state. The three slices are matched by
// index; readings and counts may be shorter than states.
// Called from runLoop on every tick.
func (t *Tracker) Update(states []logic.SensorState, readings []uint8, baselined bool, counts []logic.SensorCounts) {
	sensors := make([]Sensor, len(states))
	for i, s := range states {
		sensors[i] = Sensor{Name: s.Name, State: s.State}
		if i < len(readings) {
			sensors[i].Reading = readings[i]
		}
		if i < len(counts) {
			sensors[i].Touch = counts[i].Touch
			sensors[i].Release = counts[i].Release
		}
	}

	t.mu.Lock()
	t.snap.Sensors = sensors
	t.snap.Baselined = baselined
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	s.Sensors = append([]Sensor(nil), t.snap.Sensors...)
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
