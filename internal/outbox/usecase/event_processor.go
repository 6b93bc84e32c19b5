package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	cardsDomain "github.com/allisson/cardvault/internal/cards/domain"
	"github.com/allisson/cardvault/internal/outbox/domain"
	userDomain "github.com/allisson/cardvault/internal/user/domain"
)

// ChangePublisher receives owner-scoped change notifications.
type ChangePublisher interface {
	Publish(ownerID uuid.UUID)
}

// BrokerEventProcessor forwards card events to a ChangePublisher so live queries refresh.
type BrokerEventProcessor struct {
	publisher ChangePublisher
	logger    *slog.Logger
}

// NewBrokerEventProcessor creates a new BrokerEventProcessor
func NewBrokerEventProcessor(publisher ChangePublisher, logger *slog.Logger) *BrokerEventProcessor {
	return &BrokerEventProcessor{
		publisher: publisher,
		logger:    logger,
	}
}

// Process publishes card changes and logs user sign-ups. Unknown event types are logged
// and treated as processed.
func (p *BrokerEventProcessor) Process(ctx context.Context, event *domain.OutboxEvent) error {
	switch event.EventType {
	case cardsDomain.EventCardCreated, cardsDomain.EventCardUpdated, cardsDomain.EventCardDeleted:
		var payload cardsDomain.CardEvent
		if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
			return fmt.Errorf("invalid %s payload: %w", event.EventType, err)
		}
		if payload.OwnerID == uuid.Nil {
			return fmt.Errorf("invalid %s payload: missing owner_id", event.EventType)
		}

		p.publisher.Publish(payload.OwnerID)
	case userDomain.EventUserCreated:
		var payload userDomain.UserCreatedEvent
		if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
			return fmt.Errorf("invalid %s payload: %w", event.EventType, err)
		}
		if p.logger != nil {
			p.logger.Info("user created event", slog.String("user_id", payload.UserID.String()))
		}
	default:
		if p.logger != nil {
			p.logger.Warn("unknown event type", slog.String("event_type", event.EventType))
		}
	}

	return nil
}
