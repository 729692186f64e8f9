package mqtt

import (
	"encoding/json"

	"github.com/sweeney/mode-display/internal/logic"
)

// FakePublisher records published events for test assertions.
//
// With Offline set it behaves like RealPublisher without a broker: payloads
// go into the same ring buffer and are delivered by Reconnect.
type FakePublisher struct {
	// Events contains all mode transition events that were published.
	Events []logic.Event

	// Payloads contains the JSON payloads delivered to Topic.
	Payloads [][]byte

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads delivered to TopicSystem.
	SystemPayloads [][]byte

	// PublishError, if set, will be returned by Publish.
	PublishError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Offline buffers payloads instead of delivering them.
	Offline bool

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool

	buf *ringBuffer
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{buf: newRingBuffer(bufferCapacity)}
}

// Publish records the transition event.
func (f *FakePublisher) Publish(event logic.Event) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	f.Events = append(f.Events, event)

	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}
	f.deliver(bufferedMsg{topic: Topic, payload: payload})
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.deliver(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
	return nil
}

func (f *FakePublisher) deliver(msg bufferedMsg) {
	if f.Offline {
		f.buf.push(msg)
		return
	}
	if msg.topic == TopicSystem {
		f.SystemPayloads = append(f.SystemPayloads, msg.payload)
	} else {
		f.Payloads = append(f.Payloads, msg.payload)
	}
}

// Reconnect clears Offline and delivers everything buffered, oldest first.
func (f *FakePublisher) Reconnect() {
	f.Offline = false
	f.Connected = true
	for _, m := range f.buf.drainAll() {
		f.deliver(m)
	}
}

// Buffered returns how many payloads are waiting for Reconnect.
func (f *FakePublisher) Buffered() int {
	return f.buf.len()
}

// LastPayload decodes the most recent transition payload.
func (f *FakePublisher) LastPayload() (Payload, error) {
	var p Payload
	if len(f.Payloads) == 0 {
		return p, nil
	}
	err := json.Unmarshal(f.Payloads[len(f.Payloads)-1], &p)
	return p, err
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded events.
func (f *FakePublisher) Reset() {
	f.Events = nil
	f.Payloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.Offline = false
	f.PublishError = nil
	f.PublishSystemError = nil
	f.Connected = false
	f.buf = newRingBuffer(bufferCapacity)
}
