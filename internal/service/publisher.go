package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/cinema-seat-picker/internal/queue"
)

// Publisher delivers seat order events to downstream consumers.
type Publisher interface {
	PublishSeatsOrdered(ctx context.Context, event q.SeatsOrderedEvent) error
}

// AMQPPublisher publishes to RabbitMQ, dialling a fresh connection for each
// event.  Errors are logged and returned so the caller can choose to ignore
// them.
type AMQPPublisher struct {
	URL string
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{URL: url}
}

// PublishSeatsOrdered publishes event to the seats.ordered queue as a
// persistent message.
func (p *AMQPPublisher) PublishSeatsOrdered(ctx context.Context, event q.SeatsOrderedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		q.SeatsOrderedQueue, // name
		true,                // durable
		false,               // autoDelete
		false,               // exclusive
		false,               // noWait
		nil,                 // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                  // default exchange
		q.SeatsOrderedQueue, // routing key = queue name
		false,               // mandatory
		false,               // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}

// NopPublisher discards events.  Used when no broker is configured.
type NopPublisher struct{}

// PublishSeatsOrdered does nothing.
func (NopPublisher) PublishSeatsOrdered(context.Context, q.SeatsOrderedEvent) error { return nil }
