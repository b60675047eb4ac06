// Package service implements the offerte lifecycle: drafting, numbering,
// estimation snapshots, sending and the accept/reject/expire transitions.
package service

import (
	"context"
	"fmt"
	"time"

	calctransport "groenportaal_backend/internal/calculatie/transport"
	domainevents "groenportaal_backend/internal/events"
	"groenportaal_backend/internal/offertes/transport"
	"groenportaal_backend/platform/apperr"
	"groenportaal_backend/platform/events"
	"groenportaal_backend/platform/logger"
	"groenportaal_backend/platform/phone"

	"github.com/google/uuid"
)

// geldigheidsduur is how long a sent quote remains valid by default.
const geldigheidsduur = 30 * 24 * time.Hour

// Repository defines the persistence operations the offerte service needs.
type Repository interface {
	NextOfferteNummer(ctx context.Context, bedrijfID uuid.UUID, jaar int) (string, error)
	Create(ctx context.Context, o transport.Offerte) (transport.Offerte, error)
	Update(ctx context.Context, o transport.Offerte) (transport.Offerte, error)
	ByID(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Offerte, error)
	List(ctx context.Context, bedrijfID uuid.UUID, filter transport.ListFilter) ([]transport.Offerte, error)
	VerlopenKandidaten(ctx context.Context, peildatum time.Time) ([]transport.Offerte, error)
	UpdateStatus(ctx context.Context, bedrijfID, id uuid.UUID, van, naar transport.OfferteStatus) error
	Delete(ctx context.Context, bedrijfID, id uuid.UUID) error
}

// Calculator is the estimation engine surface the offerte service needs.
type Calculator interface {
	Voorcalculatie(ctx context.Context, tenantID uuid.UUID, req calctransport.VoorcalculatieRequest) (calctransport.VoorcalculatieResponse, error)
}

// Service handles offerte business logic.
type Service struct {
	repo       Repository
	calculator Calculator
	bus        events.Bus
	logger     *logger.Logger
	now        func() time.Time
}

// New creates a new offertes service
func New(repo Repository, calculator Calculator, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		calculator: calculator,
		bus:        bus,
		logger:     log,
		now:        time.Now,
	}
}

// Create drafts a new concept offerte with a claimed number and computed totals.
func (s *Service) Create(ctx context.Context, bedrijfID uuid.UUID, req transport.CreateOfferteRequest) (transport.Offerte, error) {
	nummer, err := s.repo.NextOfferteNummer(ctx, bedrijfID, s.now().Year())
	if err != nil {
		return transport.Offerte{}, err
	}

	offerte := transport.Offerte{
		BedrijfID:     bedrijfID,
		Nummer:        nummer,
		Status:        transport.StatusConcept,
		KlantNaam:     req.KlantNaam,
		KlantEmail:    req.KlantEmail,
		KlantTelefoon: phone.NormalizeE164(req.KlantTelefoon),
		KlantAdres:    req.KlantAdres,
		Omschrijving:  req.Omschrijving,
		Scopes:        nonNilScopes(req.Scopes),
		Globaal:       req.Globaal,
		Regels:        bouwRegels(req.Regels),
	}
	offerte.Totalen = BerekenTotalen(offerte.Regels)

	return s.repo.Create(ctx, offerte)
}

// Update replaces the editable fields. Only concept offertes can change.
func (s *Service) Update(ctx context.Context, bedrijfID, id uuid.UUID, req transport.UpdateOfferteRequest) (transport.Offerte, error) {
	offerte, err := s.repo.ByID(ctx, bedrijfID, id)
	if err != nil {
		return transport.Offerte{}, err
	}
	if offerte.Status != transport.StatusConcept {
		return transport.Offerte{}, apperr.Conflict("alleen concept offertes kunnen worden aangepast")
	}

	offerte.KlantNaam = req.KlantNaam
	offerte.KlantEmail = req.KlantEmail
	offerte.KlantTelefoon = phone.NormalizeE164(req.KlantTelefoon)
	offerte.KlantAdres = req.KlantAdres
	offerte.Omschrijving = req.Omschrijving
	offerte.Scopes = nonNilScopes(req.Scopes)
	offerte.Globaal = req.Globaal
	offerte.Regels = bouwRegels(req.Regels)
	offerte.Totalen = BerekenTotalen(offerte.Regels)
	// Scope data changed, so a previously stored estimation no longer matches.
	offerte.Voorcalculatie = nil

	return s.repo.Update(ctx, offerte)
}

// ByID fetches one offerte.
func (s *Service) ByID(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Offerte, error) {
	return s.repo.ByID(ctx, bedrijfID, id)
}

// List returns the tenant's offertes.
func (s *Service) List(ctx context.Context, bedrijfID uuid.UUID, filter transport.ListFilter) ([]transport.Offerte, error) {
	return s.repo.List(ctx, bedrijfID, filter)
}

// Delete removes a concept offerte.
func (s *Service) Delete(ctx context.Context, bedrijfID, id uuid.UUID) error {
	return s.repo.Delete(ctx, bedrijfID, id)
}

// Voorcalculatie runs the estimation engine over the offerte's scope data and
// stores the result as a snapshot on the offerte.
func (s *Service) Voorcalculatie(ctx context.Context, bedrijfID, id uuid.UUID, req transport.VoorcalculatieRequest) (transport.Offerte, error) {
	offerte, err := s.repo.ByID(ctx, bedrijfID, id)
	if err != nil {
		return transport.Offerte{}, err
	}

	resp, err := s.calculator.Voorcalculatie(ctx, bedrijfID, calctransport.VoorcalculatieRequest{
		Scopes:           offerte.Scopes,
		Globaal:          offerte.Globaal,
		Regels:           regelSnapshots(offerte.Regels),
		TeamGrootte:      req.TeamGrootte,
		UrenPerDag:       req.UrenPerDag,
		BufferPercentage: req.BufferPercentage,
	})
	if err != nil {
		return transport.Offerte{}, err
	}

	offerte.Voorcalculatie = &transport.VoorcalculatieSnapshot{
		Resultaat:     resp.Resultaat,
		Duur:          resp.Duur,
		DuurMetBuffer: resp.DuurMetBuffer,
		BerekendOp:    s.now(),
	}
	return s.repo.Update(ctx, offerte)
}

// Verzend marks a concept offerte as sent and publishes OfferteVerzonden.
// A default validity window is set when none was given.
func (s *Service) Verzend(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Offerte, error) {
	offerte, err := s.wisselStatus(ctx, bedrijfID, id, transport.StatusVerzonden)
	if err != nil {
		return transport.Offerte{}, err
	}

	if offerte.GeldigTot == nil {
		geldigTot := s.now().Add(geldigheidsduur)
		offerte.GeldigTot = &geldigTot
		if offerte, err = s.repo.Update(ctx, offerte); err != nil {
			return transport.Offerte{}, err
		}
	}

	s.bus.Publish(ctx, domainevents.OfferteVerzonden{
		BaseEvent:   events.NewBaseEvent(),
		OfferteID:   offerte.ID,
		BedrijfID:   offerte.BedrijfID,
		Offertenr:   offerte.Nummer,
		KlantNaam:   offerte.KlantNaam,
		KlantEmail:  offerte.KlantEmail,
		TotaalCents: offerte.Totalen.TotaalCents,
		GeldigTot:   offerte.GeldigTot.Format("2006-01-02"),
	})
	return offerte, nil
}

// Accepteer marks a sent offerte as accepted and publishes OfferteGeaccepteerd.
// The projecten module reacts by creating the project.
func (s *Service) Accepteer(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Offerte, error) {
	offerte, err := s.wisselStatus(ctx, bedrijfID, id, transport.StatusGeaccepteerd)
	if err != nil {
		return transport.Offerte{}, err
	}

	s.bus.Publish(ctx, domainevents.OfferteGeaccepteerd{
		BaseEvent:   events.NewBaseEvent(),
		OfferteID:   offerte.ID,
		BedrijfID:   offerte.BedrijfID,
		Offertenr:   offerte.Nummer,
		KlantNaam:   offerte.KlantNaam,
		KlantEmail:  offerte.KlantEmail,
		TotaalCents: offerte.Totalen.TotaalCents,
	})
	return offerte, nil
}

// WijsAf marks a sent offerte as rejected.
func (s *Service) WijsAf(ctx context.Context, bedrijfID, id uuid.UUID, req transport.AfwijzenRequest) (transport.Offerte, error) {
	offerte, err := s.wisselStatus(ctx, bedrijfID, id, transport.StatusAfgewezen)
	if err != nil {
		return transport.Offerte{}, err
	}

	s.bus.Publish(ctx, domainevents.OfferteAfgewezen{
		BaseEvent: events.NewBaseEvent(),
		OfferteID: offerte.ID,
		BedrijfID: offerte.BedrijfID,
		Offertenr: offerte.Nummer,
		Reden:     req.Reden,
	})
	return offerte, nil
}

// MarkeerVerlopen is the expiry sweep entry point: every sent offerte past
// its geldig-tot becomes verlopen. Returns the number of expired quotes.
func (s *Service) MarkeerVerlopen(ctx context.Context) (int, error) {
	kandidaten, err := s.repo.VerlopenKandidaten(ctx, s.now())
	if err != nil {
		return 0, err
	}

	verlopen := 0
	for _, offerte := range kandidaten {
		err := s.repo.UpdateStatus(ctx, offerte.BedrijfID, offerte.ID, transport.StatusVerzonden, transport.StatusVerlopen)
		if err != nil {
			// Raced with an accept or reject; skip and continue the sweep.
			if apperr.GetKind(err) == apperr.KindConflict {
				continue
			}
			return verlopen, err
		}
		verlopen++

		s.bus.Publish(ctx, domainevents.OfferteVerlopen{
			BaseEvent:  events.NewBaseEvent(),
			OfferteID:  offerte.ID,
			BedrijfID:  offerte.BedrijfID,
			Offertenr:  offerte.Nummer,
			KlantNaam:  offerte.KlantNaam,
			KlantEmail: offerte.KlantEmail,
		})
	}
	return verlopen, nil
}

// wisselStatus validates and applies a status transition.
func (s *Service) wisselStatus(ctx context.Context, bedrijfID, id uuid.UUID, naar transport.OfferteStatus) (transport.Offerte, error) {
	offerte, err := s.repo.ByID(ctx, bedrijfID, id)
	if err != nil {
		return transport.Offerte{}, err
	}
	if !overgangToegestaan(offerte.Status, naar) {
		return transport.Offerte{}, apperr.Conflict(
			fmt.Sprintf("offerte kan niet van %s naar %s", offerte.Status, naar))
	}
	if err := s.repo.UpdateStatus(ctx, bedrijfID, id, offerte.Status, naar); err != nil {
		return transport.Offerte{}, err
	}
	offerte.Status = naar
	return offerte, nil
}

func bouwRegels(reqs []transport.RegelRequest) []transport.Regel {
	regels := make([]transport.Regel, 0, len(reqs))
	for _, req := range reqs {
		regels = append(regels, transport.Regel{
			ID:                   uuid.New(),
			Type:                 req.Type,
			Scope:                req.Scope,
			Omschrijving:         req.Omschrijving,
			Hoeveelheid:          req.Hoeveelheid,
			Eenheid:              req.Eenheid,
			PrijsPerEenheidCents: req.PrijsPerEenheidCents,
			BTWTarief:            req.BTWTarief,
			TotaalCents:          berekenRegelTotaal(req.Hoeveelheid, req.PrijsPerEenheidCents),
		})
	}
	return regels
}

// regelSnapshots maps offerte regels to the calculation engine's view.
func regelSnapshots(regels []transport.Regel) []calctransport.RegelSnapshot {
	snapshots := make([]calctransport.RegelSnapshot, 0, len(regels))
	for _, r := range regels {
		snapshots = append(snapshots, calctransport.RegelSnapshot{
			Type:         r.Type,
			Scope:        r.Scope,
			Omschrijving: r.Omschrijving,
			Hoeveelheid:  r.Hoeveelheid,
			Eenheid:      r.Eenheid,
			TotaalCents:  r.TotaalCents,
		})
	}
	return snapshots
}

func nonNilScopes(scopes calctransport.ScopeParameters) calctransport.ScopeParameters {
	if scopes == nil {
		return calctransport.ScopeParameters{}
	}
	return scopes
}
