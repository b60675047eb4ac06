// Package service implements invoicing: drafting invoices from completed
// projects, nacalculatie-driven meerwerk and minderwerk correction lines,
// the send/paid lifecycle and SEPA payment QR codes.
package service

import (
	"context"
	"fmt"
	"math"
	"time"

	authtransport "groenportaal_backend/internal/auth/transport"
	domainevents "groenportaal_backend/internal/events"
	"groenportaal_backend/internal/facturen/transport"
	projecttransport "groenportaal_backend/internal/projecten/transport"
	"groenportaal_backend/platform/apperr"
	"groenportaal_backend/platform/events"
	"groenportaal_backend/platform/logger"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// Payment terms and correction defaults.
const (
	betalingstermijnDagen  = 14
	standaardSignificantie = 5
	standaardBTWTarief     = 21
)

// Repository defines the persistence operations the invoice service needs.
type Repository interface {
	NextFactuurNummer(ctx context.Context, bedrijfID uuid.UUID, jaar int) (string, error)
	Create(ctx context.Context, f transport.Factuur) (transport.Factuur, error)
	ByID(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Factuur, error)
	List(ctx context.Context, bedrijfID uuid.UUID, filter transport.ListFilter) ([]transport.Factuur, error)
	UpdateStatus(ctx context.Context, bedrijfID, id uuid.UUID, van, naar transport.FactuurStatus) error
	SetVervaldatum(ctx context.Context, bedrijfID, id uuid.UUID, f transport.Factuur) error
}

// ProjectLezer reads the completed project an invoice is drafted from.
type ProjectLezer interface {
	ByID(ctx context.Context, bedrijfID, id uuid.UUID) (projecttransport.Project, error)
}

// BedrijfLezer reads the tenant record for the payment QR payload.
type BedrijfLezer interface {
	BedrijfByID(ctx context.Context, id uuid.UUID) (authtransport.Bedrijf, error)
}

// Service handles invoice business logic.
type Service struct {
	repo      Repository
	projecten ProjectLezer
	bedrijven BedrijfLezer
	bus       events.Bus
	logger    *logger.Logger
	now       func() time.Time
}

// New creates a new facturen service
func New(repo Repository, projecten ProjectLezer, bedrijven BedrijfLezer, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		projecten: projecten,
		bedrijven: bedrijven,
		bus:       bus,
		logger:    log,
		now:       time.Now,
	}
}

// RegisterEventHandlers subscribes the service to the events it reacts to.
func (s *Service) RegisterEventHandlers(bus events.Bus) {
	bus.Subscribe(domainevents.EventProjectAfgerond, events.HandlerFunc(s.handleProjectAfgerond))
}

// handleProjectAfgerond drafts a concept invoice as soon as a project
// completes. The draft has no correction line; the eigenaar adds one by
// re-drafting with an uurtarief when the nacalculatie warrants it.
func (s *Service) handleProjectAfgerond(ctx context.Context, event events.Event) error {
	evt, ok := event.(domainevents.ProjectAfgerond)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}
	_, err := s.CreateFromProject(ctx, evt.BedrijfID, transport.CreateFactuurRequest{ProjectID: evt.ProjectID})
	return err
}

// CreateFromProject drafts a concept invoice for a completed project. The
// regular lines mirror the offerte regels carried on the project. When the
// nacalculatie deviates at least the significance threshold and an uurtarief
// is given, a meerwerk or minderwerk correction line is added.
func (s *Service) CreateFromProject(ctx context.Context, bedrijfID uuid.UUID, req transport.CreateFactuurRequest) (transport.Factuur, error) {
	project, err := s.projecten.ByID(ctx, bedrijfID, req.ProjectID)
	if err != nil {
		return transport.Factuur{}, err
	}
	if project.Status != projecttransport.StatusAfgerond {
		return transport.Factuur{}, apperr.Conflict("alleen afgeronde projecten kunnen gefactureerd worden")
	}

	regels := reguliereRegels(project)
	if correctie, ok := correctieRegel(project, req); ok {
		regels = append(regels, correctie)
	}
	if len(regels) == 0 {
		return transport.Factuur{}, apperr.BadRequest("project heeft geen factureerbare regels")
	}

	nummer, err := s.repo.NextFactuurNummer(ctx, bedrijfID, s.now().Year())
	if err != nil {
		return transport.Factuur{}, err
	}

	factuur := transport.Factuur{
		BedrijfID:  bedrijfID,
		ProjectID:  project.ID,
		Nummer:     nummer,
		Status:     transport.StatusConcept,
		KlantNaam:  project.KlantNaam,
		KlantEmail: project.KlantEmail,
		Regels:     regels,
		Totalen:    BerekenTotalen(regels),
	}

	created, err := s.repo.Create(ctx, factuur)
	if err != nil {
		return transport.Factuur{}, err
	}
	s.logger.Info("factuur drafted", "factuur", created.Nummer, "project_id", project.ID)
	return created, nil
}

// ByID fetches one factuur.
func (s *Service) ByID(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Factuur, error) {
	return s.repo.ByID(ctx, bedrijfID, id)
}

// List returns facturen for a tenant.
func (s *Service) List(ctx context.Context, bedrijfID uuid.UUID, filter transport.ListFilter) ([]transport.Factuur, error) {
	return s.repo.List(ctx, bedrijfID, filter)
}

// Verzend marks a concept invoice as sent, stamps the due date and notifies
// subscribers.
func (s *Service) Verzend(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Factuur, error) {
	factuur, err := s.wisselStatus(ctx, bedrijfID, id, transport.StatusVerzonden)
	if err != nil {
		return transport.Factuur{}, err
	}

	vervaldatum := s.now().AddDate(0, 0, betalingstermijnDagen)
	factuur.Vervaldatum = &vervaldatum
	if err := s.repo.SetVervaldatum(ctx, bedrijfID, id, factuur); err != nil {
		return transport.Factuur{}, err
	}

	s.bus.Publish(ctx, domainevents.FactuurVerzonden{
		BaseEvent:   events.NewBaseEvent(),
		FactuurID:   factuur.ID,
		BedrijfID:   bedrijfID,
		Factuurnr:   factuur.Nummer,
		KlantNaam:   factuur.KlantNaam,
		KlantEmail:  factuur.KlantEmail,
		TotaalCents: factuur.Totalen.TotaalCents,
		Vervaldatum: vervaldatum.Format("2006-01-02"),
	})
	s.logger.Info("factuur sent", "factuur", factuur.Nummer)
	return factuur, nil
}

// MarkeerBetaald marks a sent invoice as paid.
func (s *Service) MarkeerBetaald(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Factuur, error) {
	factuur, err := s.wisselStatus(ctx, bedrijfID, id, transport.StatusBetaald)
	if err != nil {
		return transport.Factuur{}, err
	}

	s.bus.Publish(ctx, domainevents.FactuurBetaald{
		BaseEvent:   events.NewBaseEvent(),
		FactuurID:   factuur.ID,
		BedrijfID:   bedrijfID,
		Factuurnr:   factuur.Nummer,
		TotaalCents: factuur.Totalen.TotaalCents,
	})
	s.logger.Info("factuur paid", "factuur", factuur.Nummer)
	return factuur, nil
}

// BetaalQR renders the SEPA payment QR (EPC069-12 Girocode) for an invoice
// as a PNG. Requires the bedrijf to have an IBAN on file.
func (s *Service) BetaalQR(ctx context.Context, bedrijfID, id uuid.UUID) ([]byte, error) {
	factuur, err := s.repo.ByID(ctx, bedrijfID, id)
	if err != nil {
		return nil, err
	}
	if factuur.Status == transport.StatusConcept {
		return nil, apperr.Conflict("conceptfacturen hebben nog geen betaal-QR")
	}

	bedrijf, err := s.bedrijven.BedrijfByID(ctx, bedrijfID)
	if err != nil {
		return nil, err
	}
	if bedrijf.IBAN == "" {
		return nil, apperr.BadRequest("bedrijf heeft geen IBAN geregistreerd")
	}

	payload := epcPayload(bedrijf.Naam, bedrijf.IBAN, factuur.Totalen.TotaalCents, "Factuur "+factuur.Nummer)
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode betaal-qr: %w", err)
	}
	return png, nil
}

func (s *Service) wisselStatus(ctx context.Context, bedrijfID, id uuid.UUID, naar transport.FactuurStatus) (transport.Factuur, error) {
	factuur, err := s.repo.ByID(ctx, bedrijfID, id)
	if err != nil {
		return transport.Factuur{}, err
	}
	if !overgangToegestaan(factuur.Status, naar) {
		return transport.Factuur{}, apperr.Conflict(fmt.Sprintf("overgang van %s naar %s is niet toegestaan", factuur.Status, naar))
	}
	if err := s.repo.UpdateStatus(ctx, bedrijfID, id, factuur.Status, naar); err != nil {
		return transport.Factuur{}, err
	}
	factuur.Status = naar
	return factuur, nil
}

// reguliereRegels maps the project's offerte line snapshots to invoice lines.
func reguliereRegels(project projecttransport.Project) []transport.Regel {
	regels := make([]transport.Regel, 0, len(project.Regels))
	for _, r := range project.Regels {
		regels = append(regels, transport.Regel{
			ID:           uuid.New(),
			Soort:        transport.SoortRegulier,
			Omschrijving: r.Omschrijving,
			Hoeveelheid:  r.Hoeveelheid,
			Eenheid:      r.Eenheid,
			TotaalCents:  r.TotaalCents,
			BTWTarief:    standaardBTWTarief,
		})
	}
	return regels
}

// correctieRegel derives the meerwerk or minderwerk line from the project's
// nacalculatie snapshot. No line when the deviation is under the threshold
// or no uurtarief is given to price it.
func correctieRegel(project projecttransport.Project, req transport.CreateFactuurRequest) (transport.Regel, bool) {
	if project.Nacalculatie == nil || req.UurtariefCents <= 0 {
		return transport.Regel{}, false
	}

	drempel := req.SignificantieDrempel
	if drempel == 0 {
		drempel = standaardSignificantie
	}
	pct := project.Nacalculatie.AfwijkingPercentage
	if pct > -drempel && pct < drempel {
		return transport.Regel{}, false
	}

	uren := project.Nacalculatie.AfwijkingUren
	regel := transport.Regel{
		ID:          uuid.New(),
		Hoeveelheid: math.Abs(uren),
		Eenheid:     "uur",
		TotaalCents: int64(math.Round(uren * float64(req.UurtariefCents))),
		BTWTarief:   standaardBTWTarief,
	}
	if uren >= 0 {
		regel.Soort = transport.SoortMeerwerk
		regel.Omschrijving = fmt.Sprintf("Meerwerk: %.1f uur boven voorcalculatie", uren)
	} else {
		regel.Soort = transport.SoortMinderwerk
		regel.Omschrijving = fmt.Sprintf("Minderwerk: %.1f uur onder voorcalculatie", -uren)
	}
	return regel, true
}
