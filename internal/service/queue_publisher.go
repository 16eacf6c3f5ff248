package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/room-reservation/internal/queue"
)

// EventPublisher delivers reservation change events.  Implementations must
// be safe for concurrent use.
type EventPublisher interface {
	Publish(ctx context.Context, event q.ReservationEvent) error
}

// NopPublisher drops every event.  It is used when no broker is configured.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(context.Context, q.ReservationEvent) error { return nil }

// AMQPPublisher publishes events to the reservations.events queue on a
// RabbitMQ broker.  Each call dials, declares the queue, publishes and
// closes.
type AMQPPublisher struct {
	URL    string
	Logger *log.Logger
}

// dialTimeout bounds connecting when ctx carries no deadline.
const dialTimeout = 30 * time.Second

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string, logger *log.Logger) *AMQPPublisher {
	return &AMQPPublisher{URL: url, Logger: logger}
}

// Publish sends event as a persistent JSON message.  Errors are logged and
// returned so the caller can choose to ignore them.
func (p *AMQPPublisher) Publish(ctx context.Context, event q.ReservationEvent) error {
	timeout := dialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}
	// the connection and the AMQP handshake share the caller's deadline
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		p.Logger.Errorf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Logger.Errorf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		q.QueueName, // name
		true,        // durable
		false,       // autoDelete
		false,       // exclusive
		false,       // noWait
		nil,         // args
	); err != nil {
		p.Logger.Errorf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.Logger.Errorf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		MessageId:    event.EventID,
		Type:         event.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",          // default exchange
		q.QueueName, // routing key = queue name
		false,       // mandatory
		false,       // immediate
		pub,
	); err != nil {
		p.Logger.Errorf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
