// Package usecase implements the outbox worker and the in-process broker it feeds.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/allisson/cardvault/internal/database"
	"github.com/allisson/cardvault/internal/outbox/domain"
)

// Config tunes the worker: how often it polls, how many events one transaction claims, and
// how many failed deliveries an event gets before it is marked failed.
// Non-positive values are replaced by the defaults below.
type Config struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

const (
	defaultInterval   = time.Second
	defaultBatchSize  = 100
	defaultMaxRetries = 5
)

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = defaultInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaultMaxRetries
	}
	return c
}

// OutboxEventRepository is the storage the worker and the writing use cases share.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *domain.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	Update(ctx context.Context, event *domain.OutboxEvent) error
}

// EventProcessor delivers one event.
type EventProcessor interface {
	Process(ctx context.Context, event *domain.OutboxEvent) error
}

// UseCase is the outbox worker as seen by the server and the process-outbox command.
type UseCase interface {
	Start(ctx context.Context) error
	ProcessEvents(ctx context.Context) error
}

// OutboxUseCase polls committed events and hands them to an EventProcessor.
type OutboxUseCase struct {
	config     Config
	txManager  database.TxManager
	outboxRepo OutboxEventRepository
	processor  EventProcessor
	logger     *slog.Logger
}

// NewOutboxUseCase builds the worker. A nil logger discards output.
func NewOutboxUseCase(
	config Config,
	txManager database.TxManager,
	outboxRepo OutboxEventRepository,
	processor EventProcessor,
	logger *slog.Logger,
) *OutboxUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &OutboxUseCase{
		config:     config.withDefaults(),
		txManager:  txManager,
		outboxRepo: outboxRepo,
		processor:  processor,
		logger:     logger,
	}
}

// Start polls every Interval until ctx is cancelled and returns ctx.Err(). A full batch means
// more events are probably waiting, so the worker keeps draining without waiting for the next
// tick; live card streams depend on how quickly events get through.
func (uc *OutboxUseCase) Start(ctx context.Context) error {
	uc.logger.Info("starting outbox worker",
		slog.Duration("interval", uc.config.Interval),
		slog.Int("batch_size", uc.config.BatchSize),
	)

	ticker := time.NewTicker(uc.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info("stopping outbox worker")
			return ctx.Err()
		case <-ticker.C:
			uc.drain(ctx)
		}
	}
}

func (uc *OutboxUseCase) drain(ctx context.Context) {
	for ctx.Err() == nil {
		claimed, err := uc.processBatch(ctx)
		if err != nil {
			if ctx.Err() == nil {
				uc.logger.Error("failed to process outbox events", slog.Any("error", err))
			}
			return
		}
		if claimed < uc.config.BatchSize {
			return
		}
	}
}

// ProcessEvents processes a single batch of pending events in one transaction.
func (uc *OutboxUseCase) ProcessEvents(ctx context.Context) error {
	_, err := uc.processBatch(ctx)
	return err
}

func (uc *OutboxUseCase) processBatch(ctx context.Context) (int, error) {
	claimed := 0
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		events, err := uc.outboxRepo.GetPendingEvents(ctx, uc.config.BatchSize)
		if err != nil {
			return err
		}
		claimed = len(events)

		for _, event := range events {
			if err := uc.processor.Process(ctx, event); err != nil {
				uc.logger.Error("failed to process outbox event",
					slog.String("event_id", event.ID.String()),
					slog.String("event_type", event.EventType),
					slog.Int("retries", event.Retries+1),
					slog.Any("error", err),
				)
				event.RecordFailure(err, uc.config.MaxRetries)
			} else {
				event.MarkProcessed(time.Now())
			}

			if err := uc.outboxRepo.Update(ctx, event); err != nil {
				return err
			}
		}
		return nil
	})
	return claimed, err
}
