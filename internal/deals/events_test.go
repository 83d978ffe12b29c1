package deals

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/flipradar-backend/pkg/errors"
)

type stubTopic struct {
	data  []byte
	attrs map[string]string
	err   error
}

func (s *stubTopic) Publish(_ context.Context, data []byte, attrs map[string]string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.data = data
	s.attrs = attrs
	return "msg-1", nil
}

func TestPubSubPublisherEncodesEvent(t *testing.T) {
	t.Parallel()

	topic := &stubTopic{}
	publisher, err := NewPubSubPublisher(topic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	event := DealEvent{
		DealID:       uuid.New(),
		ProductID:    "prod-1",
		CurrentPrice: 150,
		AutoCheckout: true,
	}
	if err := publisher.PublishDeal(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded DealEvent
	if err := json.Unmarshal(topic.data, &decoded); err != nil {
		t.Fatalf("payload is not valid json: %v", err)
	}
	if decoded.DealID != event.DealID || decoded.ProductID != "prod-1" {
		t.Fatalf("decoded event mismatch: %+v", decoded)
	}
	if topic.attrs["event_type"] != "deal.detected" || topic.attrs["product_id"] != "prod-1" {
		t.Fatalf("unexpected attributes: %+v", topic.attrs)
	}
}

func TestPubSubPublisherWrapsTransportFailures(t *testing.T) {
	t.Parallel()

	publisher, err := NewPubSubPublisher(&stubTopic{err: errors.New("broker down")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = publisher.PublishDeal(context.Background(), DealEvent{ProductID: "prod-1"})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
