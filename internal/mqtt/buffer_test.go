package mqtt

import (
	"testing"
)

func TestOutboxEmptyTake(t *testing.T) {
	o := newOutbox(10)
	got, dropped := o.take()
	if got != nil {
		t.Errorf("expected nil from empty take, got %d items", len(got))
	}
	if dropped != 0 {
		t.Errorf("expected 0 dropped, got %d", dropped)
	}
}

func TestOutboxAddAndTake(t *testing.T) {
	o := newOutbox(10)
	for i := 0; i < 5; i++ {
		o.add(queuedMsg{topic: "t", payload: []byte{byte(i)}})
	}

	got, dropped := o.take()
	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %d", len(got))
	}
	if dropped != 0 {
		t.Errorf("expected 0 dropped, got %d", dropped)
	}
	for i := 0; i < 5; i++ {
		if got[i].payload[0] != byte(i) {
			t.Errorf("item %d: expected payload %d, got %d", i, i, got[i].payload[0])
		}
	}

	if again, _ := o.take(); again != nil {
		t.Errorf("expected nil from second take, got %d items", len(again))
	}
}

func TestOutboxOverflowDropsOldest(t *testing.T) {
	o := newOutbox(3)
	for i := 0; i < 7; i++ {
		o.add(queuedMsg{topic: "t", payload: []byte{byte(i)}})
	}
	if o.len() != 3 {
		t.Fatalf("expected len 3, got %d", o.len())
	}

	got, dropped := o.take()
	if dropped != 4 {
		t.Errorf("expected 4 dropped, got %d", dropped)
	}
	for i, msg := range got {
		want := byte(4 + i)
		if msg.payload[0] != want {
			t.Errorf("item %d: expected %d, got %d", i, want, msg.payload[0])
		}
	}
}

func TestOutboxZeroLimit(t *testing.T) {
	o := newOutbox(0)
	o.add(queuedMsg{topic: "t"})
	got, dropped := o.take()
	if got != nil {
		t.Errorf("expected no messages, got %d", len(got))
	}
	if dropped != 1 {
		t.Errorf("expected 1 dropped, got %d", dropped)
	}
}

func TestOutboxReusableAfterTake(t *testing.T) {
	o := newOutbox(4)
	for i := 0; i < 6; i++ {
		o.add(queuedMsg{topic: "t", payload: []byte{byte(i)}})
	}
	o.take()

	o.add(queuedMsg{topic: "u", payload: []byte{42}, qos: 1, retained: true})
	got, dropped := o.take()
	if dropped != 0 {
		t.Errorf("dropped count should reset, got %d", dropped)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0].topic != "u" || got[0].payload[0] != 42 || got[0].qos != 1 || !got[0].retained {
		t.Errorf("fields not preserved: %+v", got[0])
	}
}
