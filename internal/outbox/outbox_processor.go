package outbox

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-retail-api/internal/messaging/kafka/producer"
	"go-retail-api/internal/pkg/metrics"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const defaultMaxAttempts = 5

// MessageWriter is the part of *kafka.Writer the processor needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type ProcessorConfig struct {
	PollInterval time.Duration
	BatchSize    int32
	MaxAttempts  int32
}

type Processor struct {
	db      *sql.DB
	repo    Repository
	writer  MessageWriter
	breaker *gobreaker.CircuitBreaker[struct{}]
	cfg     ProcessorConfig
	logger  *zap.Logger
}

func NewProcessor(db *sql.DB, repo Repository, writer MessageWriter, cfg ProcessorConfig, logger *zap.Logger) *Processor {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("outbox.processor")

	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "kafka-outbox",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Processor{
		db:      db,
		repo:    repo,
		writer:  writer,
		breaker: breaker,
		cfg:     cfg,
		logger:  logger,
	}
}

func (p *Processor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	p.logger.Info("outbox processor started", zap.Duration("poll_interval", p.cfg.PollInterval))

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox processor stopped")
			return
		case <-ticker.C:
			if _, err := p.ProcessBatch(ctx); err != nil {
				p.logger.Error("outbox batch failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch publishes one batch of pending events and reports how many
// were sent. While the breaker is open the batch is left untouched.
func (p *Processor) ProcessBatch(ctx context.Context) (int, error) {
	if p.breaker.State() == gobreaker.StateOpen {
		return 0, nil
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	repo := p.repo.WithTx(tx)

	events, err := repo.ListPending(ctx, p.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	sent := 0
	for _, event := range events {
		log := p.logger.With(
			zap.String("event_id", event.ID.String()),
			zap.String("event_type", event.EventType),
		)

		_, err := p.breaker.Execute(func() (struct{}, error) {
			return struct{}{}, p.writer.WriteMessages(ctx, producer.Message(event))
		})
		if err != nil {
			metrics.OutboxPublished.WithLabelValues("failed").Inc()
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				log.Warn("breaker open, deferring rest of batch")
				break
			}
			log.Warn("publish failed", zap.Error(err))
			if err := repo.MarkFailed(ctx, event.ID, p.cfg.MaxAttempts); err != nil {
				return sent, err
			}
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			return sent, err
		}
		metrics.OutboxPublished.WithLabelValues("sent").Inc()
		sent++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true

	if sent > 0 {
		p.logger.Info("outbox events published", zap.Int("count", sent))
	}
	return sent, nil
}
