package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// JobEventQueueName es la cola durable de eventos de import.
const JobEventQueueName = "stanlendar.import.events"

// AMQPPublisher publica eventos de import en RabbitMQ.
type AMQPPublisher struct {
	url     string
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	// Cola durable: los eventos sobreviven reinicios del broker.
	if _, err := channel.QueueDeclare(JobEventQueueName, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("declare queue: %w", err)
	}

	p.conn = conn
	p.channel = channel
	return nil
}

func (p *AMQPPublisher) PublishJobEvent(ctx context.Context, ev JobEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal job event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	publish := func() error {
		return p.channel.PublishWithContext(ctx, "", JobEventQueueName, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    ev.OccurredAt,
			Body:         body,
		})
	}

	if err := publish(); err != nil {
		// Un intento de reconexión antes de rendirse.
		if rerr := p.connect(); rerr != nil {
			return err
		}
		return publish()
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
