package logic

import "time"

// Detector tracks per-sensor state and detects debounced transitions.
type Detector struct {
	debounceDuration time.Duration
	threshold        uint8
	names            []string
	channels         []ChannelState
	counts           []SensorCounts
	baselined        bool
	startTime        time.Time
	lastHeartbeat    time.Time
}

// NewDetector creates a detector for the named sensors. A reading at or above
// threshold counts as touched. The startTime is used for calculating uptime
// in heartbeat events.
func NewDetector(names []string, threshold uint8, debounceDuration time.Duration, startTime time.Time) *Detector {
	counts := make([]SensorCounts, len(names))
	for i, n := range names {
		counts[i].Name = n
	}
	return &Detector{
		debounceDuration: debounceDuration,
		threshold:        threshold,
		names:            append([]string(nil), names...),
		channels:         make([]ChannelState, len(names)),
		counts:           counts,
		startTime:        startTime,
		lastHeartbeat:    startTime,
	}
}

// Process takes a round of readings and returns any events that should be
// emitted. Events are only returned after baseline is established and on
// state transitions, in sensor order. Sensors without a reading in input
// are left untouched.
func (d *Detector) Process(input Input) []Event {
	transitions := make([]*EventType, len(d.channels))
	for i := range d.channels {
		if i >= len(input.Readings) {
			continue
		}
		ch := &d.channels[i]
		ch.Reading = input.Readings[i]
		transitions[i] = d.processChannel(ch, d.stateFor(ch.Reading), input.Time)
	}

	// Check if we've established baseline
	if !d.baselined {
		if d.allBaselined() {
			d.baselined = true
		}
		return nil // No events until baseline established
	}

	var events []Event
	for i, tr := range transitions {
		if tr == nil {
			continue
		}
		events = append(events, Event{
			Timestamp: input.Time,
			Type:      *tr,
			Sensor:    d.names[i],
			Reading:   d.channels[i].Reading,
			States:    d.CurrentStates(),
		})
		switch *tr {
		case EventTouch:
			d.counts[i].Touch++
		case EventRelease:
			d.counts[i].Release++
		}
	}

	return events
}

func (d *Detector) stateFor(reading uint8) State {
	if reading >= d.threshold {
		return StateTouched
	}
	return StateReleased
}

func (d *Detector) allBaselined() bool {
	for i := range d.channels {
		if !d.channels[i].Baselined {
			return false
		}
	}
	return true
}

// processChannel handles debounce logic for a single sensor.
// Returns the event type if a transition occurred, nil otherwise.
func (d *Detector) processChannel(ch *ChannelState, newState State, now time.Time) *EventType {
	// First time seeing this sensor
	if !ch.Baselined {
		if ch.Pending == "" || ch.Pending != newState {
			// Start observing, or restart after a change during baseline
			ch.Pending = newState
			ch.PendingSince = now
			return nil
		}
		if now.Sub(ch.PendingSince) >= d.debounceDuration {
			ch.Stable = newState
			ch.Baselined = true
			ch.Pending = ""
		}
		return nil
	}

	// Already baselined - detect transitions
	if newState == ch.Stable {
		ch.Pending = ""
		return nil
	}

	if ch.Pending != newState {
		ch.Pending = newState
		ch.PendingSince = now
		return nil
	}

	if now.Sub(ch.PendingSince) >= d.debounceDuration {
		ch.Stable = newState
		ch.Pending = ""
		return eventTypeFor(newState)
	}
	return nil
}

func eventTypeFor(to State) *EventType {
	event := EventRelease
	if to == StateTouched {
		event = EventTouch
	}
	return &event
}

// IsBaselined returns whether the detector has established a baseline.
func (d *Detector) IsBaselined() bool {
	return d.baselined
}

// Names returns the sensor names in order.
func (d *Detector) Names() []string {
	return append([]string(nil), d.names...)
}

// CurrentStates returns the stable state of every sensor. A sensor without a
// baseline has an empty State.
func (d *Detector) CurrentStates() []SensorState {
	states := make([]SensorState, len(d.channels))
	for i := range d.channels {
		states[i] = SensorState{Name: d.names[i], State: d.channels[i].Stable}
	}
	return states
}

// LastReadings returns the most recent raw reading of every sensor.
func (d *Detector) LastReadings() []uint8 {
	readings := make([]uint8, len(d.channels))
	for i := range d.channels {
		readings[i] = d.channels[i].Reading
	}
	return readings
}

// EventCountsSnapshot returns a copy of the per-sensor event counts.
func (d *Detector) EventCountsSnapshot() []SensorCounts {
	return append([]SensorCounts(nil), d.counts...)
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if not yet baselined, if the
// interval has not elapsed, or if interval is <= 0 (disabled).
func (d *Detector) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if !d.baselined {
		return nil
	}
	if now.Sub(d.lastHeartbeat) < interval {
		return nil
	}
	d.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(d.startTime),
		Counts:    d.EventCountsSnapshot(),
	}
}
