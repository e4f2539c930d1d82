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

const processTimeout = 30 * time.Second

// EventHandler processes one decoded event. A returned error dead-letters
// the message.
type EventHandler func(ctx context.Context, event *events.Event) error

type Consumer struct {
	conn           *amqp.Connection
	channel        *amqp.Channel
	queueName      string
	serviceName    string
	workerPoolSize int
}

type ConsumerConfig struct {
	Exchange       string   // e.g. "lostfound.item"
	QueueName      string   // e.g. "lostfound.audit.item.v1"
	RoutingKeys    []string // e.g. ["item.*.v1"]
	ServiceName    string   // consumer tag
	PrefetchCount  int      // 0 means 10
	WorkerPoolSize int      // 0 means 1
}

// NewConsumer declares the exchange, the queue, and a dead letter
// exchange/queue pair bound with the same routing keys.
func NewConsumer(url string, config ConsumerConfig) (*Consumer, error) {
	conn, err := dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := setupTopology(channel, config); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	zap.L().Info("RabbitMQ consumer created successfully",
		zap.String("queue", config.QueueName),
		zap.String("exchange", config.Exchange),
		zap.Strings("routingKeys", config.RoutingKeys),
	)

	return &Consumer{
		conn:           conn,
		channel:        channel,
		queueName:      config.QueueName,
		serviceName:    config.ServiceName,
		workerPoolSize: max(config.WorkerPoolSize, 1),
	}, nil
}

func setupTopology(channel *amqp.Channel, config ConsumerConfig) error {
	prefetchCount := config.PrefetchCount
	if prefetchCount == 0 {
		prefetchCount = 10
	}
	if err := channel.Qos(prefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	if err := declareTopicExchange(channel, config.Exchange); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	dlxName := config.Exchange + ".dlx"
	if err := declareTopicExchange(channel, dlxName); err != nil {
		return fmt.Errorf("failed to declare DLX: %w", err)
	}

	queue, err := channel.QueueDeclare(
		config.QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{"x-dead-letter-exchange": dlxName},
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	dlqName := config.QueueName + ".dlq"
	if _, err := channel.QueueDeclare(dlqName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}

	for _, routingKey := range config.RoutingKeys {
		if err := channel.QueueBind(dlqName, routingKey, dlxName, false, nil); err != nil {
			return fmt.Errorf("failed to bind DLQ: %w", err)
		}
		if err := channel.QueueBind(queue.Name, routingKey, config.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue: %w", err)
		}
	}

	return nil
}

// Consume dispatches deliveries to a pool of workers until ctx is cancelled
// or the delivery channel closes.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	msgs, err := c.channel.Consume(
		c.queueName,
		c.serviceName, // consumer tag
		false,         // auto-ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	zap.L().Info("Started consuming messages",
		zap.String("queue", c.queueName),
		zap.Int("workers", c.workerPoolSize),
	)

	return consumeDeliveries(ctx, msgs, c.workerPoolSize, func(ctx context.Context, d delivery) {
		handleDelivery(ctx, c.queueName, d, handler)
	})
}

func consumeDeliveries(ctx context.Context, msgs <-chan amqp.Delivery, workers int, process func(context.Context, delivery)) error {
	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case msg, ok := <-msgs:
					if !ok {
						select {
						case errCh <- errors.New("message channel closed"):
						default:
						}
						return
					}
					process(ctx, amqpDelivery{msg})
				}
			}
		}()
	}

	wg.Wait()

	select {
	case err := <-errCh:
		zap.L().Warn("Message channel closed")
		return err
	default:
		zap.L().Info("Consumer context cancelled, stopping...")
		return ctx.Err()
	}
}

// delivery is the part of amqp.Delivery the consumer needs.
type delivery interface {
	Body() []byte
	RoutingKey() string
	Header(key string) string
	Ack() error
	Reject() error
}

type amqpDelivery struct {
	msg amqp.Delivery
}

func (d amqpDelivery) Body() []byte       { return d.msg.Body }
func (d amqpDelivery) RoutingKey() string { return d.msg.RoutingKey }
func (d amqpDelivery) Ack() error         { return d.msg.Ack(false) }
func (d amqpDelivery) Reject() error      { return d.msg.Nack(false, false) }

func (d amqpDelivery) Header(key string) string {
	v, _ := d.msg.Headers[key].(string)
	return v
}

func handleDelivery(ctx context.Context, queue string, d delivery, handler EventHandler) {
	traceID := d.Header("x-trace-id")

	zap.L().Debug("Received message",
		zap.String("queue", queue),
		zap.String("routingKey", d.RoutingKey()),
		zap.String("traceId", traceID),
		zap.String("correlationId", d.Header("x-correlation-id")),
		zap.String("sourceService", d.Header("x-service")),
	)

	event, err := events.FromJSON(d.Body())
	if err != nil {
		zap.L().Error("Failed to unmarshal event",
			zap.Error(err),
			zap.String("traceId", traceID),
		)
		_ = d.Reject()
		return
	}

	processCtx, cancel := context.WithTimeout(ctx, processTimeout)
	defer cancel()

	if err := handler(processCtx, event); err != nil {
		zap.L().Error("Failed to process event",
			zap.Error(err),
			zap.String("event", event.Event),
			zap.String("traceId", traceID),
		)
		_ = d.Reject()
		return
	}

	if err := d.Ack(); err != nil {
		zap.L().Error("Failed to acknowledge message",
			zap.Error(err),
			zap.String("traceId", traceID),
		)
		return
	}

	zap.L().Debug("Successfully processed event",
		zap.String("event", event.Event),
		zap.String("traceId", traceID),
	)
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			zap.L().Error("Failed to close channel", zap.Error(err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			zap.L().Error("Failed to close connection", zap.Error(err))
			return err
		}
	}
	zap.L().Info("RabbitMQ consumer closed")
	return nil
}
