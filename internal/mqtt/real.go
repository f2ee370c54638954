package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/touch-sensor/internal/logic"
)

// outboxSize bounds how many messages are held while the broker is unreachable.
const outboxSize = 100

// RealPublisher publishes to an actual MQTT broker. Messages published while
// the connection is down are queued and sent after reconnecting.
type RealPublisher struct {
	client paho.Client

	mu        sync.Mutex
	outbox    *outbox
	connected bool // at least one successful connection
}

// NewRealPublisher creates a publisher for the given broker. The connection
// is retried in the background, so an unreachable broker is not an error.
func NewRealPublisher(broker, clientID string) (*RealPublisher, error) {
	p := &RealPublisher{outbox: newOutbox(outboxSize)}

	will, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "SHUTDOWN",
		Reason:    "MQTT_DISCONNECT",
	})
	if err != nil {
		return nil, fmt.Errorf("format will payload: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetBinaryWill(TopicSystem, will, 1, true).
		SetOnConnectHandler(func(paho.Client) { p.onConnect() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		log.Printf("mqtt: broker %s not reachable yet, retrying in background", broker)
		return p, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// Publish sends a touch event to the MQTT broker.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	return p.send(queuedMsg{topic: Topic, payload: payload})
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events
	return p.send(queuedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

// IsConnected reports whether the broker connection is currently up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}

// send queues msg while disconnected. The check and the add share p.mu with
// onConnect's take, so a message cannot land in the outbox after the replay.
func (p *RealPublisher) send(msg queuedMsg) error {
	p.mu.Lock()
	if !p.client.IsConnectionOpen() {
		p.outbox.add(msg)
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()
	return p.deliver(msg)
}

func (p *RealPublisher) deliver(msg queuedMsg) error {
	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish %s timeout", msg.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", msg.topic, err)
	}
	return nil
}

// onConnect replays queued messages and, after a reconnect, announces it.
func (p *RealPublisher) onConnect() {
	p.mu.Lock()
	msgs, dropped := p.outbox.take()
	reconnect := p.connected
	p.connected = true
	p.mu.Unlock()

	if reconnect {
		payload, err := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "RECONNECTED"})
		if err != nil {
			log.Printf("mqtt: format reconnected event: %v", err)
		} else if err := p.deliver(queuedMsg{topic: TopicSystem, payload: payload, qos: 1}); err != nil {
			log.Printf("mqtt: publish reconnected event: %v", err)
		}
	}

	if len(msgs) > 0 {
		log.Printf("mqtt: replaying %d queued messages (%d dropped)", len(msgs), dropped)
	}
	for _, msg := range msgs {
		if err := p.deliver(msg); err != nil {
			log.Printf("mqtt: replay: %v", err)
		}
	}
}
