package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"lostfound/pkg/events"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// confirmation is the broker's answer for exactly one published message.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// publishChannel is the part of a confirm-mode channel the publisher needs.
type publishChannel interface {
	declareExchange(name string) error
	publish(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) (confirmation, error)
}

type amqpChannel struct {
	ch *amqp.Channel
}

func (c amqpChannel) declareExchange(name string) error {
	return declareTopicExchange(c.ch, name)
}

func (c amqpChannel) publish(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) (confirmation, error) {
	dc, err := c.ch.PublishWithDeferredConfirmWithContext(ctx, exchange, routingKey, false, false, msg)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, errors.New("channel is not in confirm mode")
	}
	return dc, nil
}

// RabbitMQPublisher implements events.Publisher over a single confirm-mode
// channel. Every message carries its own deferred confirmation, so a late ack
// for a timed out publish can never be read by the next one.
type RabbitMQPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	out      publishChannel
	declared map[string]bool
	service  string
}

func NewRabbitMQPublisher(url, service string) (*RabbitMQPublisher, error) {
	conn, err := dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.Confirm(false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	zap.L().Info("RabbitMQ publisher connected successfully")

	p := newPublisher(amqpChannel{ch: channel}, service)
	p.conn = conn
	p.channel = channel
	return p, nil
}

func newPublisher(out publishChannel, service string) *RabbitMQPublisher {
	return &RabbitMQPublisher{
		out:      out,
		declared: make(map[string]bool),
		service:  service,
	}
}

// Publish sends event to exchange and waits for the broker ack of that
// message.
func (p *RabbitMQPublisher) Publish(ctx context.Context, exchange string, event *events.Event, headers events.Headers) error {
	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.Timestamp,
		Headers: amqp.Table{
			"x-trace-id":       headers.TraceID,
			"x-correlation-id": headers.CorrelationID,
			"x-service":        p.service,
		},
	}
	routingKey := event.GetRoutingKey()

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	confirm, err := p.send(publishCtx, exchange, routingKey, msg)
	if err != nil {
		return err
	}

	acked, err := confirm.WaitContext(publishCtx)
	if err != nil {
		return fmt.Errorf("publish confirmation timeout: %w", err)
	}
	if !acked {
		return errors.New("message was not acknowledged by broker")
	}

	zap.L().Debug("Event published",
		zap.String("exchange", exchange),
		zap.String("routingKey", routingKey),
		zap.String("eventId", event.ID),
		zap.String("traceId", headers.TraceID),
	)

	return nil
}

// send declares the exchange on first use and hands the message to the
// channel. Waiting for the confirmation happens outside the lock.
func (p *RabbitMQPublisher) send(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) (confirmation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.declared[exchange] {
		if err := p.out.declareExchange(exchange); err != nil {
			return nil, fmt.Errorf("failed to declare exchange: %w", err)
		}
		p.declared[exchange] = true
	}

	confirm, err := p.out.publish(ctx, exchange, routingKey, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to publish message: %w", err)
	}
	return confirm, nil
}

func (p *RabbitMQPublisher) IsHealthy() bool {
	if p == nil || p.conn == nil || p.channel == nil {
		return false
	}
	return !p.conn.IsClosed() && !p.channel.IsClosed()
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			zap.L().Error("Failed to close channel", zap.Error(err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			zap.L().Error("Failed to close connection", zap.Error(err))
			return err
		}
	}
	zap.L().Info("RabbitMQ publisher closed")
	return nil
}
