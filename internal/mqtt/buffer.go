package mqtt

import "log"

// queuedMsg is a serialized message waiting for the broker to come back.
type queuedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox holds the most recent messages published while disconnected.
// When full, the oldest message is discarded.
// Not safe for concurrent use; RealPublisher guards it with its mutex.
type outbox struct {
	msgs    []queuedMsg
	limit   int
	dropped int
}

func newOutbox(limit int) *outbox {
	return &outbox{
		msgs:  make([]queuedMsg, 0, limit),
		limit: limit,
	}
}

func (o *outbox) add(msg queuedMsg) {
	if o.limit <= 0 {
		o.dropped++
		return
	}
	if len(o.msgs) == o.limit {
		if o.dropped == 0 {
			log.Printf("mqtt: outbox full (%d messages), dropping oldest", o.limit)
		}
		copy(o.msgs, o.msgs[1:])
		o.msgs = o.msgs[:len(o.msgs)-1]
		o.dropped++
	}
	o.msgs = append(o.msgs, msg)
}

// take returns the queued messages oldest first, the number dropped since
// the last take, and empties the outbox.
func (o *outbox) take() ([]queuedMsg, int) {
	if len(o.msgs) == 0 && o.dropped == 0 {
		return nil, 0
	}
	msgs := o.msgs
	dropped := o.dropped
	o.msgs = make([]queuedMsg, 0, o.limit)
	o.dropped = 0
	if len(msgs) == 0 {
		msgs = nil
	}
	return msgs, dropped
}

func (o *outbox) len() int {
	return len(o.msgs)
}
