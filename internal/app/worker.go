package app

import (
	"context"

	"go-retail-api/internal/config"
	"go-retail-api/internal/messaging/kafka/producer"
	"go-retail-api/internal/outbox"
	"go-retail-api/internal/shared/connection"
	"go-retail-api/internal/shared/database/dbgen"

	"go.uber.org/zap"
)

// RunWorker relays outbox events to Kafka until ctx is cancelled.
func RunWorker(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("worker")

	// 1. Database
	db, err := connection.ConnectDBWithRetry(cfg.DBURL, cfg.ConnectRetries, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	// 2. Kafka
	if err := connection.WaitForKafka(cfg.KafkaBroker, cfg.ConnectRetries, logger); err != nil {
		return err
	}
	writer := producer.NewWriter(cfg.KafkaBroker, cfg.KafkaTopic)
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Warn("kafka writer close failed", zap.Error(err))
		}
	}()

	// 3. Processor
	processor := outbox.NewProcessor(
		db,
		outbox.NewRepository(dbgen.New(db)),
		writer,
		outbox.ProcessorConfig{
			PollInterval: cfg.OutboxPollInterval,
			BatchSize:    int32(cfg.OutboxBatchSize),
		},
		logger,
	)

	logger.Info("outbox worker started",
		zap.String("broker", cfg.KafkaBroker),
		zap.String("topic", cfg.KafkaTopic),
	)
	processor.Start(ctx)
	logger.Info("outbox worker stopped")

	return nil
}
