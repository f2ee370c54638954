package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Sensors       []SensorJSON `json:"sensors"`
	Ready         bool         `json:"ready"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Config        ConfigJSON   `json:"config"`
}

// SensorJSON is the JSON representation of one pad.
type SensorJSON struct {
	Name    string `json:"name"`
	State   string `json:"state"`
	Reading uint8  `json:"reading"`
	Touch   int    `json:"touch_count"`
	Release int    `json:"release_count"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Chip        string `json:"chip"`
	PollMs      int64  `json:"poll_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Threshold   uint8  `json:"threshold"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}

// StateOrUnknown renders a sensor state, using UNKNOWN before baseline.
func StateOrUnknown(s string) string {
	if s == "" {
		return "UNKNOWN"
	}
	return s
}

func buildInner(snap Snapshot) StatusInner {
	sensors := make([]SensorJSON, len(snap.Sensors))
	for i, s := range snap.Sensors {
		sensors[i] = SensorJSON{
			Name:    s.Name,
			State:   StateOrUnknown(string(s.State)),
			Reading: s.Reading,
			Touch:   s.Touch,
			Release: s.Release,
		}
	}

	cfg := snap.Config
	return StatusInner{
		Sensors:       sensors,
		Ready:         snap.Baselined,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: cfg.Broker},
		Config: ConfigJSON{
			Chip:        cfg.Chip,
			PollMs:      cfg.PollMs,
			DebounceMs:  cfg.DebounceMs,
			HeartbeatMs: cfg.HeartbeatMs,
			Threshold:   cfg.Threshold,
			Broker:      cfg.Broker,
			HTTPAddr:    cfg.HTTPAddr,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
