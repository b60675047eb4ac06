// Package events defines the domain events exchanged between modules.
// Event names are stable identifiers; payloads carry IDs and denormalized
// fields so handlers avoid cross-module repository lookups.
package events

import (
	"groenportaal_backend/platform/events"

	"github.com/google/uuid"
)

// Event names.
const (
	EventOfferteVerzonden     = "offerte.verzonden"
	EventOfferteGeaccepteerd  = "offerte.geaccepteerd"
	EventOfferteAfgewezen     = "offerte.afgewezen"
	EventOfferteVerlopen      = "offerte.verlopen"
	EventProjectAfgerond      = "project.afgerond"
	EventFactuurVerzonden     = "factuur.verzonden"
	EventFactuurBetaald       = "factuur.betaald"
	EventNacalculatieAfgerond = "nacalculatie.afgerond"
)

// OfferteVerzonden fires when a quote is sent to the customer.
type OfferteVerzonden struct {
	events.BaseEvent
	OfferteID    uuid.UUID
	BedrijfID    uuid.UUID
	Offertenr    string
	KlantNaam    string
	KlantEmail   string
	TotaalCents  int64
	GeldigTot    string
}

func (e OfferteVerzonden) EventName() string { return EventOfferteVerzonden }

// OfferteGeaccepteerd fires when the customer accepts a quote. The projecten
// module reacts by creating a project from the quote.
type OfferteGeaccepteerd struct {
	events.BaseEvent
	OfferteID   uuid.UUID
	BedrijfID   uuid.UUID
	Offertenr   string
	KlantNaam   string
	KlantEmail  string
	TotaalCents int64
}

func (e OfferteGeaccepteerd) EventName() string { return EventOfferteGeaccepteerd }

// OfferteAfgewezen fires when the customer rejects a quote.
type OfferteAfgewezen struct {
	events.BaseEvent
	OfferteID uuid.UUID
	BedrijfID uuid.UUID
	Offertenr string
	Reden     string
}

func (e OfferteAfgewezen) EventName() string { return EventOfferteAfgewezen }

// OfferteVerlopen fires when the expiry sweep marks a sent quote as expired.
type OfferteVerlopen struct {
	events.BaseEvent
	OfferteID  uuid.UUID
	BedrijfID  uuid.UUID
	Offertenr  string
	KlantNaam  string
	KlantEmail string
}

func (e OfferteVerlopen) EventName() string { return EventOfferteVerlopen }

// ProjectAfgerond fires when a project is marked completed. The facturen
// module reacts by drafting an invoice, the scheduler snapshots the
// nacalculatie.
type ProjectAfgerond struct {
	events.BaseEvent
	ProjectID  uuid.UUID
	BedrijfID  uuid.UUID
	OfferteID  uuid.UUID
	Naam       string
	KlantNaam  string
	KlantEmail string
}

func (e ProjectAfgerond) EventName() string { return EventProjectAfgerond }

// FactuurVerzonden fires when an invoice is sent to the customer.
type FactuurVerzonden struct {
	events.BaseEvent
	FactuurID   uuid.UUID
	BedrijfID   uuid.UUID
	Factuurnr   string
	KlantNaam   string
	KlantEmail  string
	TotaalCents int64
	Vervaldatum string
}

func (e FactuurVerzonden) EventName() string { return EventFactuurVerzonden }

// FactuurBetaald fires when an invoice is marked paid.
type FactuurBetaald struct {
	events.BaseEvent
	FactuurID   uuid.UUID
	BedrijfID   uuid.UUID
	Factuurnr   string
	TotaalCents int64
}

func (e FactuurBetaald) EventName() string { return EventFactuurBetaald }

// NacalculatieAfgerond fires when the scheduler stores a variance snapshot
// for a completed project.
type NacalculatieAfgerond struct {
	events.BaseEvent
	ProjectID           uuid.UUID
	BedrijfID           uuid.UUID
	AfwijkingPercentage int
	Status              string
}

func (e NacalculatieAfgerond) EventName() string { return EventNacalculatieAfgerond }
