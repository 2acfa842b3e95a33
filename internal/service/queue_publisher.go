package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/condominio-auth/internal/queue"
)

// AMQPPublisher publishes account events to a durable RabbitMQ queue.  A
// connection is dialled per event; account changes are rare enough that a
// pooled channel is not worth its reconnect logic.
type AMQPPublisher struct {
	URL   string
	Queue string
}

func NewAMQPPublisher(url, queueName string) *AMQPPublisher {
	return &AMQPPublisher{URL: url, Queue: queueName}
}

// Publish sends ev as a persistent JSON message through the default exchange.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.AccountEvent) error {
	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(2 * time.Second)})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		p.Queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent, // store on disk
			Timestamp:    time.Now().UTC(),
			Type:         ev.Type,
			Body:         body,
		})
}
