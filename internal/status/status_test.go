package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/touch-sensor/internal/logic"
)

var testStates = []logic.SensorState{
	{Name: "left", State: logic.StateTouched},
	{Name: "right", State: logic.StateReleased},
}

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{PollMs: 50, DebounceMs: 100, Threshold: 8, Broker: "tcp://localhost:1883", HTTPAddr: ":80"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.Threshold != 8 {
		t.Errorf("Config.Threshold: got %d, want 8", snap.Config.Threshold)
	}
	if snap.Baselined {
		t.Error("expected Baselined=false initially")
	}
	if len(snap.Sensors) != 0 {
		t.Errorf("expected no sensors initially, got %d", len(snap.Sensors))
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.Update(testStates, []uint8{12, 3}, true, []logic.SensorCounts{
		{Name: "left", Touch: 4, Release: 3},
		{Name: "right", Touch: 1, Release: 1},
	})

	snap := tr.Snapshot()
	if !snap.Baselined {
		t.Error("expected Baselined=true")
	}
	if len(snap.Sensors) != 2 {
		t.Fatalf("expected 2 sensors, got %d", len(snap.Sensors))
	}
	left := snap.Sensors[0]
	if left.Name != "left" || left.State != logic.StateTouched || left.Reading != 12 || left.Touch != 4 || left.Release != 3 {
		t.Errorf("unexpected left sensor: %+v", left)
	}
}

func TestUpdateShortSlices(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.Update(testStates, []uint8{9}, false, nil)

	snap := tr.Snapshot()
	if snap.Sensors[0].Reading != 9 || snap.Sensors[1].Reading != 0 {
		t.Errorf("unexpected readings: %+v", snap.Sensors)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.Update(testStates, []uint8{12, 3}, true, nil)

	snap := tr.Snapshot()
	snap.Sensors[0].Reading = 99

	if got := tr.Snapshot().Sensors[0].Reading; got != 12 {
		t.Errorf("snapshot mutation leaked into tracker: %d", got)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			tr.Update(testStates, []uint8{uint8(i), 0}, i%2 == 0, nil)
			tr.SetMQTTConnected(i%2 == 0)
		}(i)
		go func() {
			defer wg.Done()
			_ = FormatJSON(tr.Snapshot())
		}()
	}
	wg.Wait()
}

func TestFormatJSONUnknownBeforeBaseline(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.Update([]logic.SensorState{{Name: "left"}}, nil, false, nil)

	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if sj.Status.Sensors[0].State != "UNKNOWN" {
		t.Errorf("expected UNKNOWN, got %q", sj.Status.Sensors[0].State)
	}
	if sj.Status.Ready {
		t.Error("expected Ready=false")
	}
	if sj.Status.Event != "" {
		t.Errorf("web JSON should not carry an event, got %q", sj.Status.Event)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Sensors:   []Sensor{{Name: "left", State: logic.StateReleased, Reading: 2}},
		Baselined: true,
		StartTime: start,
		Now:       start.Add(90 * time.Second),
		Config:    Config{Broker: "tcp://b:1883", Threshold: 8},
	}

	var sj StatusJSON
	if err := json.Unmarshal(FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM"), &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if sj.Status.Event != "SHUTDOWN" || sj.Status.Reason != "SIGTERM" {
		t.Errorf("unexpected event/reason: %q/%q", sj.Status.Event, sj.Status.Reason)
	}
	if sj.Status.UptimeSeconds != 90 {
		t.Errorf("UptimeSeconds: got %d, want 90", sj.Status.UptimeSeconds)
	}
	if sj.Status.MQTT.Broker != "tcp://b:1883" {
		t.Errorf("MQTT.Broker: got %q", sj.Status.MQTT.Broker)
	}
	if sj.Status.Sensors[0].State != "RELEASED" {
		t.Errorf("unexpected sensor state %q", sj.Status.Sensors[0].State)
	}
}
