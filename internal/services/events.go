package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Routing keys of the catalog events.
const (
	EventProductCreated      = "catalog.product.created"
	EventProductUpdated      = "catalog.product.updated"
	EventProductDeleted      = "catalog.product.deleted"
	EventProductStockChanged = "catalog.product.stock_changed"
	EventProductToggled      = "catalog.product.toggled"
	EventCategoryCreated     = "catalog.category.created"
	EventCategoryUpdated     = "catalog.category.updated"
	EventCategoryDeleted     = "catalog.category.deleted"
)

// EventPublisher delivers catalog events to a broker. *rabbitmq.Client implements it.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Event is the JSON body of every published message.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// publisher sends events best-effort: failures are logged and never reach the caller.
type publisher struct {
	events EventPublisher
	log    *zap.Logger
}

func (p publisher) publish(ctx context.Context, eventType string, data any) {
	if p.events == nil {
		return
	}
	evt := Event{Type: eventType, OccurredAt: time.Now().UTC(), Data: data}
	if err := p.events.Publish(ctx, eventType, evt); err != nil {
		p.log.Warn("failed to publish catalog event", zap.String("event", eventType), zap.Error(err))
	}
}
