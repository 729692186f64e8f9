package mqtt

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/mode-display/internal/logic"
)

const (
	publishTimeout = 5 * time.Second
	closeTimeout   = 5 * time.Second

	// queueCapacity bounds messages waiting for the sender goroutine.
	// Overflow goes to the ring buffer.
	queueCapacity = 16
)

// client is the subset of paho.Client the publisher uses.
type client interface {
	IsConnectionOpen() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

// RealPublisher publishes to an actual MQTT broker.
//
// Publish and PublishSystem never wait on the network: messages are queued
// for a sender goroutine that owns every token wait. Messages produced
// while the connection is down, or that time out on a stalled connection,
// are buffered and replayed on reconnect or after the next successful
// publish.
type RealPublisher struct {
	client  client
	timeout time.Duration

	queue  chan bufferedMsg
	replay chan struct{}
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once

	mu  sync.Mutex
	buf *ringBuffer
}

func newPublisher() *RealPublisher {
	return &RealPublisher{
		timeout: publishTimeout,
		queue:   make(chan bufferedMsg, queueCapacity),
		replay:  make(chan struct{}, 1),
		done:    make(chan struct{}),
		buf:     newRingBuffer(bufferCapacity),
	}
}

// NewRealPublisher creates a publisher for the given broker. The first
// connection attempt is bounded; after that paho keeps retrying in the
// background and events are buffered until it succeeds.
func NewRealPublisher(broker, clientID string) (*RealPublisher, error) {
	p := newPublisher()

	will, _ := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "OFFLINE"})

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(TopicSystem, string(will), 1, true).
		SetOnConnectHandler(func(paho.Client) {
			p.requestReplay()
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	c := paho.NewClient(opts)
	p.client = c
	p.start()

	token := c.Connect()
	if token.WaitTimeout(10*time.Second) && token.Error() != nil {
		p.stop()
		return nil, fmt.Errorf("connect to broker: %w", token.Error())
	}

	return p, nil
}

// Publish queues a mode transition event for the MQTT broker.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	p.send(bufferedMsg{topic: Topic, payload: payload})
	return nil
}

// PublishSystem queues a system lifecycle event for the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events
	p.send(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
	return nil
}

// send hands msg to the sender goroutine without blocking.
func (p *RealPublisher) send(msg bufferedMsg) {
	select {
	case p.queue <- msg:
	default:
		// Sender is stuck on a slow broker
		p.hold(msg)
	}
}

func (p *RealPublisher) hold(msg bufferedMsg) {
	p.mu.Lock()
	p.buf.push(msg)
	p.mu.Unlock()
}

// requestReplay asks the sender goroutine to flush the ring buffer.
// Safe to call from paho's handlers.
func (p *RealPublisher) requestReplay() {
	select {
	case p.replay <- struct{}{}:
	default:
	}
}

func (p *RealPublisher) start() {
	p.wg.Add(1)
	go p.run()
}

// run is the sender goroutine. It is the only place that waits on tokens.
func (p *RealPublisher) run() {
	defer p.wg.Done()
	for {
		select {
		case msg := <-p.queue:
			p.deliver(msg)
		case <-p.replay:
			p.flush()
		case <-p.done:
			// Deliver what the loop queued before shutting down (SHUTDOWN)
			for {
				select {
				case msg := <-p.queue:
					p.deliver(msg)
				default:
					return
				}
			}
		}
	}
}

func (p *RealPublisher) deliver(msg bufferedMsg) {
	if !p.client.IsConnectionOpen() {
		p.hold(msg)
		return
	}
	if err := p.publish(msg); err != nil {
		log.Printf("mqtt: %v, buffering", err)
		p.hold(msg)
		return
	}
	// The broker is answering again; retry anything held back
	p.flush()
}

func (p *RealPublisher) publish(msg bufferedMsg) error {
	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(p.timeout) {
		return errors.New("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// flush publishes buffered messages oldest first.
func (p *RealPublisher) flush() {
	p.mu.Lock()
	msgs := p.buf.drainAll()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	log.Printf("mqtt: replaying %d buffered messages", len(msgs))
	for i, m := range msgs {
		if !p.client.IsConnectionOpen() {
			p.holdAll(msgs[i:])
			return
		}
		if err := p.publish(m); err != nil {
			log.Printf("mqtt: replay failed: %v", err)
			p.holdAll(msgs[i:])
			return
		}
	}
}

func (p *RealPublisher) holdAll(msgs []bufferedMsg) {
	p.mu.Lock()
	for _, m := range msgs {
		p.buf.push(m)
	}
	p.mu.Unlock()
}

// Buffered returns how many messages are waiting for the broker.
func (p *RealPublisher) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buf.len()
}

// IsConnected reports whether the client currently has an open connection.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// stop ends the sender goroutine after it delivers the queued messages, or
// after closeTimeout if the broker is stalled.
func (p *RealPublisher) stop() {
	p.once.Do(func() { close(p.done) })

	finished := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(closeTimeout):
		log.Printf("mqtt: sender still busy after %v, closing anyway", closeTimeout)
	}
}

// Close flushes queued messages and disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.stop()
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
