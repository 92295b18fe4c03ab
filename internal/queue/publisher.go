package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const orderQueueName = "order.confirmed"

// Publisher pushes domain events to RabbitMQ. Each publish dials its own
// short-lived connection; checkout volume does not warrant a long-lived
// channel with reconnect handling on the publish side.
type Publisher struct {
	url string
	log *zap.Logger
}

// NewPublisher constructs a Publisher for the given AMQP URL. log may be nil.
func NewPublisher(url string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{url: url, log: log}
}

// PublishOrderConfirmed publishes an OrderConfirmedEvent to the
// order.confirmed queue. Any error is logged and returned so the caller can
// choose to ignore it. Messages are marked persistent and the queue is
// declared durable, so events survive broker restarts.
func (p *Publisher) PublishOrderConfirmed(ctx context.Context, event OrderConfirmedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("rabbitmq dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("rabbitmq channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Declaring is idempotent and keeps publish order-independent from
	// consumer startup.
	if _, err := ch.QueueDeclare(orderQueueName, true, false, false, false, nil); err != nil {
		p.log.Warn("rabbitmq queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Warn("event marshal failed", zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    event.EventID,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", orderQueueName, false, false, pub); err != nil {
		p.log.Warn("rabbitmq publish failed", zap.Error(err))
		return err
	}
	return nil
}
