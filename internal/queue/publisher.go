package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

var (
	// ErrPublisherClosed is returned by Publish after Close.
	ErrPublisherClosed = errors.New("queue: publisher closed")
	// ErrBufferFull is returned when events arrive faster than the broker
	// takes them. The event is dropped.
	ErrBufferFull = errors.New("queue: publish buffer full")
)

const (
	defaultBuffer      = 256
	defaultDialTimeout = 5 * time.Second
	sendTimeout        = 5 * time.Second
	redialBackoff      = 5 * time.Second
)

// Publisher sends AuthEvents to the durable auth.events queue. Publish only
// enqueues; a single background worker owns the broker connection, opens it
// on first use and reopens it after it breaks. While the broker is
// unreachable, events are dropped until the next redial attempt. Safe for
// concurrent use.
type Publisher struct {
	url  string
	log  logrus.FieldLogger
	dial func(network, addr string) (net.Conn, error)

	events chan AuthEvent
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once

	// owned by the worker goroutine
	conn    *amqp.Connection
	ch      *amqp.Channel
	retryAt time.Time
}

// PublisherOption customises a Publisher.
type PublisherOption func(*Publisher)

// WithDialer replaces the TCP dialer used to reach the broker.
func WithDialer(dial func(network, addr string) (net.Conn, error)) PublisherOption {
	return func(p *Publisher) { p.dial = dial }
}

// WithBuffer sets how many events may wait for the broker.
func WithBuffer(n int) PublisherOption {
	return func(p *Publisher) {
		if n > 0 {
			p.events = make(chan AuthEvent, n)
		}
	}
}

// NewPublisher starts the background worker. Call Close to stop it.
func NewPublisher(url string, log logrus.FieldLogger, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		url:    url,
		log:    log,
		dial:   amqp.DefaultDial(defaultDialTimeout),
		events: make(chan AuthEvent, defaultBuffer),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, o := range opts {
		o(p)
	}
	go p.run()
	return p
}

// Publish hands ev to the worker without waiting for the broker.
func (p *Publisher) Publish(ctx context.Context, ev AuthEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-p.stop:
		return ErrPublisherClosed
	default:
	}
	select {
	case p.events <- ev:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrBufferFull, ev.Type)
	}
}

// Close stops the worker once it has tried to send the events already
// buffered, then releases the connection.
func (p *Publisher) Close() error {
	p.once.Do(func() { close(p.stop) })
	<-p.done
	return nil
}

func (p *Publisher) run() {
	defer close(p.done)
	defer p.reset()
	for {
		select {
		case ev := <-p.events:
			p.send(ev)
		case <-p.stop:
			for {
				select {
				case ev := <-p.events:
					p.send(ev)
				default:
					return
				}
			}
		}
	}
}

func (p *Publisher) send(ev AuthEvent) {
	log := p.log.WithField("event", ev.Type)
	msg, err := publishing(ev)
	if err != nil {
		log.WithError(err).Warn("drop auth event")
		return
	}
	ch, err := p.channel()
	if err != nil {
		log.WithError(err).Warn("drop auth event: broker unavailable")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := ch.PublishWithContext(ctx, "", AuthEventsQueue, false, false, msg); err != nil {
		p.reset()
		log.WithError(err).Warn("drop auth event: publish failed")
	}
}

// channel returns an open channel with the queue declared. A failed dial
// holds off the next attempt for redialBackoff.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}
	p.reset()
	if now := time.Now(); now.Before(p.retryAt) {
		return nil, fmt.Errorf("rabbitmq: next dial in %s", p.retryAt.Sub(now).Round(time.Millisecond))
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: p.dial})
	if err != nil {
		p.retryAt = time.Now().Add(redialBackoff)
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		p.retryAt = time.Now().Add(redialBackoff)
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(AuthEventsQueue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		p.retryAt = time.Now().Add(redialBackoff)
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	p.log.WithField("queue", AuthEventsQueue).Info("rabbitmq publisher connected")
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *Publisher) reset() {
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			p.log.WithError(err).Debug("rabbitmq close")
		}
	}
	p.conn, p.ch = nil, nil
}

func publishing(ev AuthEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal %s: %w", ev.Type, err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}, nil
}
