package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// AMQPClient publishes events to a durable direct exchange and consumes
// them back from the bound queue.
// The queue is bound with its own name as routing key.
type AMQPClient struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string

	// Channels are not safe for concurrent publishing.
	mu sync.Mutex
}

// NewAMQPClient dials url and declares the exchange, queue and binding.
func NewAMQPClient(url, exchange, queue string) (*AMQPClient, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	c := &AMQPClient{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		queue:    queue,
	}

	if err := c.setup(); err != nil {
		c.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return c, nil
}

func (c *AMQPClient) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchange, // name
		"direct",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queue, // name
		true,    // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := c.channel.QueueBind(c.queue, c.queue, c.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// Publish sends e as a persistent JSON message. The event type travels in
// the message Type property as well as in the body.
func (c *AMQPClient) Publish(ctx context.Context, e Event) error {
	body, err := e.ToJSON()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchange, // exchange
		c.queue,    // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    e.OccurredAt,
			Type:         e.Type,
			MessageId:    e.EntityID,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}

	slog.DebugContext(ctx, "Published event",
		"type", e.Type,
		"entity_id", e.EntityID,
		"exchange", c.exchange,
	)

	return nil
}

// Handler processes one event taken off the queue.
type Handler func(ctx context.Context, e Event) error

type outcome int

const (
	ack outcome = iota
	reject
	requeue
)

// dispatch decodes body and hands it to handle. Undecodable messages are
// rejected for good; handler failures are requeued.
func dispatch(ctx context.Context, body []byte, handle Handler) outcome {
	e, err := EventFromJSON(body)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to decode event", "error", err)
		return reject
	}

	if err := handle(ctx, e); err != nil {
		slog.ErrorContext(ctx, "Failed to handle event",
			"error", err,
			"type", e.Type,
			"entity_id", e.EntityID,
		)
		return requeue
	}
	return ack
}

// Consume delivers events from the queue to handle until ctx is done or the
// broker closes the channel. Messages are acknowledged after handle returns.
func (c *AMQPClient) Consume(ctx context.Context, handle Handler) error {
	deliveries, err := c.channel.Consume(
		c.queue, // queue
		"",      // consumer
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Consuming events", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}

			switch dispatch(ctx, d.Body, handle) {
			case ack:
				err = d.Ack(false)
			case reject:
				err = d.Nack(false, false)
			case requeue:
				err = d.Nack(false, true)
			}
			if err != nil {
				return fmt.Errorf("acknowledge delivery: %w", err)
			}
		}
	}
}

// Close closes the channel and the connection.
func (c *AMQPClient) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
