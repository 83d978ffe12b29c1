package deals

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/flipradar-backend/pkg/errors"
)

// DealEvent is the payload published when a deal is detected.
type DealEvent struct {
	DealID          uuid.UUID `json:"deal_id"`
	ProductID       string    `json:"product_id"`
	CurrentPrice    float64   `json:"current_price"`
	OriginalPrice   float64   `json:"original_price"`
	DiscountPercent float64   `json:"discount_percent"`
	AutoCheckout    bool      `json:"auto_checkout"`
	DetectedAt      time.Time `json:"detected_at"`
}

// EventPublisher broadcasts detected deals to downstream consumers.
type EventPublisher interface {
	PublishDeal(ctx context.Context, event DealEvent) error
}

// NopPublisher drops events. Used when publishing is feature-flagged off.
type NopPublisher struct{}

func (NopPublisher) PublishDeal(context.Context, DealEvent) error { return nil }

// topicPublisher is the transport surface the Pub/Sub client satisfies.
type topicPublisher interface {
	Publish(ctx context.Context, data []byte, attrs map[string]string) (string, error)
}

// PubSubPublisher sends deal events to the configured topic.
type PubSubPublisher struct {
	client topicPublisher
}

func NewPubSubPublisher(client topicPublisher) (*PubSubPublisher, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "publisher requires a pubsub client")
	}
	return &PubSubPublisher{client: client}, nil
}

func (p *PubSubPublisher) PublishDeal(ctx context.Context, event DealEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding deal event")
	}

	attrs := map[string]string{
		"event_type": "deal.detected",
		"product_id": event.ProductID,
	}
	if _, err := p.client.Publish(ctx, payload, attrs); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publishing deal event")
	}
	return nil
}
