package notification

import (
	"context"
	"testing"

	domainevents "groenportaal_backend/internal/events"
	"groenportaal_backend/platform/events"
	"groenportaal_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeSender struct {
	offerteMails []string
	factuurMails []string
}

func (f *fakeSender) SendOfferteGeaccepteerdEmail(_ context.Context, toEmail, _, _ string) error {
	f.offerteMails = append(f.offerteMails, toEmail)
	return nil
}

func (f *fakeSender) SendFactuurVerzondenEmail(_ context.Context, toEmail, _, _ string, _ int64, _ string) error {
	f.factuurMails = append(f.factuurMails, toEmail)
	return nil
}

func TestOfferteGeaccepteerdStuurtMail(t *testing.T) {
	sender := &fakeSender{}
	bus := events.NewInMemoryBus(logger.New("test"))
	New(sender, logger.New("test")).RegisterEventHandlers(bus)

	err := bus.PublishSync(context.Background(), domainevents.OfferteGeaccepteerd{
		BaseEvent:  events.NewBaseEvent(),
		OfferteID:  uuid.New(),
		Offertenr:  "OFF-2026-0001",
		KlantNaam:  "Familie de Boer",
		KlantEmail: "deboer@voorbeeld.nl",
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if len(sender.offerteMails) != 1 || sender.offerteMails[0] != "deboer@voorbeeld.nl" {
		t.Errorf("expected one confirmation mail to the klant, got %v", sender.offerteMails)
	}
}

func TestFactuurVerzondenStuurtMail(t *testing.T) {
	sender := &fakeSender{}
	bus := events.NewInMemoryBus(logger.New("test"))
	New(sender, logger.New("test")).RegisterEventHandlers(bus)

	err := bus.PublishSync(context.Background(), domainevents.FactuurVerzonden{
		BaseEvent:   events.NewBaseEvent(),
		FactuurID:   uuid.New(),
		Factuurnr:   "FAC-2026-0001",
		KlantNaam:   "Familie de Boer",
		KlantEmail:  "deboer@voorbeeld.nl",
		TotaalCents: 187550,
		Vervaldatum: "2026-09-15",
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if len(sender.factuurMails) != 1 {
		t.Errorf("expected one invoice mail, got %v", sender.factuurMails)
	}
}

func TestGeenMailZonderKlantEmail(t *testing.T) {
	sender := &fakeSender{}
	bus := events.NewInMemoryBus(logger.New("test"))
	New(sender, logger.New("test")).RegisterEventHandlers(bus)

	err := bus.PublishSync(context.Background(), domainevents.OfferteGeaccepteerd{
		BaseEvent: events.NewBaseEvent(),
		OfferteID: uuid.New(),
		Offertenr: "OFF-2026-0002",
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if len(sender.offerteMails) != 0 {
		t.Errorf("missing klant email should skip the mail, got %v", sender.offerteMails)
	}
}
