// Package notification translates domain events into outgoing mails. It has
// no HTTP surface; it only subscribes to the event bus.
package notification

import (
	"context"
	"fmt"

	"groenportaal_backend/internal/email"
	domainevents "groenportaal_backend/internal/events"
	"groenportaal_backend/platform/events"
	"groenportaal_backend/platform/logger"
)

// Notifier sends mails in reaction to domain events.
type Notifier struct {
	sender email.Sender
	logger *logger.Logger
}

// New creates a new notifier
func New(sender email.Sender, log *logger.Logger) *Notifier {
	return &Notifier{sender: sender, logger: log}
}

// RegisterEventHandlers subscribes the notifier to the events it mails on.
func (n *Notifier) RegisterEventHandlers(bus events.Bus) {
	bus.Subscribe(domainevents.EventOfferteGeaccepteerd, events.HandlerFunc(n.handleOfferteGeaccepteerd))
	bus.Subscribe(domainevents.EventFactuurVerzonden, events.HandlerFunc(n.handleFactuurVerzonden))
}

func (n *Notifier) handleOfferteGeaccepteerd(ctx context.Context, event events.Event) error {
	evt, ok := event.(domainevents.OfferteGeaccepteerd)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}
	if evt.KlantEmail == "" {
		return nil
	}

	if err := n.sender.SendOfferteGeaccepteerdEmail(ctx, evt.KlantEmail, evt.KlantNaam, evt.Offertenr); err != nil {
		return fmt.Errorf("send offerte geaccepteerd mail: %w", err)
	}
	n.logger.Info("confirmation mail sent", "offerte", evt.Offertenr)
	return nil
}

func (n *Notifier) handleFactuurVerzonden(ctx context.Context, event events.Event) error {
	evt, ok := event.(domainevents.FactuurVerzonden)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}
	if evt.KlantEmail == "" {
		return nil
	}

	if err := n.sender.SendFactuurVerzondenEmail(ctx, evt.KlantEmail, evt.KlantNaam, evt.Factuurnr, evt.TotaalCents, evt.Vervaldatum); err != nil {
		return fmt.Errorf("send factuur mail: %w", err)
	}
	n.logger.Info("invoice mail sent", "factuur", evt.Factuurnr)
	return nil
}
