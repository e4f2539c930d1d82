package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lostfound/infra/postgres"
	"lostfound/infra/rabbitmq"
	"lostfound/internal/consumers"
	"lostfound/pkg/aws"
	"lostfound/pkg/config"
	"lostfound/pkg/events"
	"lostfound/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()
	log := logger.Init(appConfig.LogLevel, appConfig.LogFormat)
	defer log.Sync()

	zap.L().Info("Lost & Found audit worker starting...",
		zap.String("serviceName", appConfig.ServiceName),
		zap.String("auditSink", appConfig.AuditSink),
	)

	if appConfig.RabbitMQURL == "" {
		zap.L().Fatal("RABBITMQ_URL is required for worker service")
	}

	sink, closeSink, err := newAuditSink(appConfig)
	if err != nil {
		zap.L().Fatal("Failed to create audit sink", zap.Error(err))
	}
	defer closeSink()

	auditHandler := consumers.NewAuditEventHandler(sink, zap.L())

	// Queue name: {service}.{purpose}.{domain}.{version}
	consumer, err := rabbitmq.NewConsumer(appConfig.RabbitMQURL, rabbitmq.ConsumerConfig{
		Exchange:       events.ItemExchange,
		QueueName:      appConfig.ServiceName + ".audit.item.v1",
		RoutingKeys:    []string{"item.*.v1", "item.*.*.v1"},
		ServiceName:    appConfig.ServiceName + "-audit",
		PrefetchCount:  20,
		WorkerPoolSize: 4,
	})
	if err != nil {
		zap.L().Fatal("Failed to create item event consumer", zap.Error(err))
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zap.L().Info("Worker service started successfully. Waiting for events...",
		zap.String("exchange", events.ItemExchange),
	)

	if err := consumer.Consume(ctx, auditHandler.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
		zap.L().Error("Item event consumer stopped", zap.Error(err))
	}

	zap.L().Info("Worker service stopped gracefully")
}

func newAuditSink(appConfig *config.AppConfig) (consumers.AuditSink, func(), error) {
	switch appConfig.AuditSink {
	case "postgres":
		dsn := appConfig.PostgresDSN()
		if err := postgres.RunMigrations(dsn); err != nil {
			return nil, nil, err
		}

		repository, err := postgres.NewAuditRepository(dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("connect audit database: %w", err)
		}
		return repository, func() { _ = repository.Close() }, nil

	case "s3":
		bucket := aws.NewS3Bucket(appConfig)
		return aws.NewAuditArchive(bucket, "audit"), func() { _ = bucket.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown AUDIT_SINK %q, expected postgres or s3", appConfig.AuditSink)
	}
}
