package events

import (
	"context"
	"testing"

	platformevents "groenportaal_backend/platform/events"
	"groenportaal_backend/platform/logger"

	"github.com/google/uuid"
)

func TestNewInMemoryBusLevertDomainEventsAf(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	var ontvangen []OfferteGeaccepteerd
	bus.Subscribe(EventOfferteGeaccepteerd, platformevents.HandlerFunc(func(_ context.Context, e platformevents.Event) error {
		evt, ok := e.(OfferteGeaccepteerd)
		if !ok {
			t.Fatalf("unexpected event type %T", e)
		}
		ontvangen = append(ontvangen, evt)
		return nil
	}))

	offerteID := uuid.New()
	err := bus.PublishSync(context.Background(), OfferteGeaccepteerd{
		BaseEvent: platformevents.NewBaseEvent(),
		OfferteID: offerteID,
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if len(ontvangen) != 1 || ontvangen[0].OfferteID != offerteID {
		t.Errorf("handler should receive the published event, got %v", ontvangen)
	}
}
