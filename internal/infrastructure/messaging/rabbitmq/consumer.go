package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/groupware-kr/calendar-service/internal/application/event"
)

// Consumer turns calendar.event.* notifications into ChangeNotes on a
// channel the store watches. Every instance binds its own auto-named
// queue, so a change published anywhere fans out to all of them.
type Consumer struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	queue    string
	exchange string

	notes chan event.ChangeNote
}

func NewConsumer(rabbitURL, exchange string) (*Consumer, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	// exclusive auto-delete queue: the subscription lives and dies with
	// this instance
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "calendar.event.*", exchange, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	return &Consumer{
		conn:     conn,
		channel:  ch,
		queue:    q.Name,
		exchange: exchange,
		notes:    make(chan event.ChangeNote, 16),
	}, nil
}

// Notes is the feed handed to Store.Watch.
func (c *Consumer) Notes() <-chan event.ChangeNote { return c.notes }

// Start begins consuming until ctx is canceled.
func (c *Consumer) Start(ctx context.Context) {
	go c.consume(ctx)
	log.Info().
		Str("queue", c.queue).
		Str("exchange", c.exchange).
		Msg("calendar change consumer started")
}

func (c *Consumer) consume(ctx context.Context) {
	defer close(c.notes)

	msgs, err := c.channel.Consume(c.queue, "", false, true, false, false, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to start consuming")
		return
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("consumer shutting down")
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Warn().Msg("consumer channel closed")
				return
			}
			c.handleMessage(ctx, msg)
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	var env event.ChangeEnvelope[event.EventChangedPayload]
	if err := json.Unmarshal(msg.Body, &env); err != nil {
		// malformed notification still means "something changed": a full
		// re-fetch is always safe, so never drop the signal
		log.Warn().Err(err).Str("rk", msg.RoutingKey).Msg("unparseable change note")
	}

	note := event.ChangeNote{
		Action:  msg.RoutingKey,
		EventID: env.Payload.EventID,
	}

	select {
	case c.notes <- note:
	case <-ctx.Done():
		msg.Ack(false)
		return
	default:
		// feed is full: a refresh is already pending, collapsing the
		// backlog into it loses nothing
		log.Debug().Str("rk", msg.RoutingKey).Msg("change note coalesced")
	}
	msg.Ack(false)
}

// Close closes the consumer connection.
func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
