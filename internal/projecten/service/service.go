// Package service implements project execution: creation from accepted
// offertes, append-only hour and machine logging, variance analysis and
// photo attachments.
package service

import (
	"context"
	"fmt"
	"time"

	calcservice "groenportaal_backend/internal/calculatie/service"
	calctransport "groenportaal_backend/internal/calculatie/transport"
	domainevents "groenportaal_backend/internal/events"
	offertetransport "groenportaal_backend/internal/offertes/transport"
	"groenportaal_backend/internal/projecten/transport"
	"groenportaal_backend/platform/apperr"
	"groenportaal_backend/platform/events"
	"groenportaal_backend/platform/logger"

	"github.com/google/uuid"
)

// Repository defines the persistence operations the project service needs.
type Repository interface {
	Create(ctx context.Context, p transport.Project) (transport.Project, error)
	Update(ctx context.Context, p transport.Project) (transport.Project, error)
	ByID(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Project, error)
	List(ctx context.Context, bedrijfID uuid.UUID, filter transport.ListFilter) ([]transport.Project, error)
	AddUren(ctx context.Context, bedrijfID, projectID uuid.UUID, u calctransport.Urenregistratie) (calctransport.Urenregistratie, error)
	UrenVoorProject(ctx context.Context, bedrijfID, projectID uuid.UUID) ([]calctransport.Urenregistratie, error)
	AddMachine(ctx context.Context, bedrijfID, projectID uuid.UUID, machine string, m calctransport.Machinegebruik) (calctransport.Machinegebruik, error)
	MachinesVoorProject(ctx context.Context, bedrijfID, projectID uuid.UUID) ([]calctransport.Machinegebruik, error)
	AddFoto(ctx context.Context, bedrijfID uuid.UUID, f transport.Foto) (transport.Foto, error)
	FotosVoorProject(ctx context.Context, bedrijfID, projectID uuid.UUID) ([]transport.Foto, error)
	AfgerondeProjectenZonderNacalculatie(ctx context.Context, sinds time.Time) ([]transport.Project, error)
}

// OfferteLezer reads the accepted offerte when a project is created from it.
type OfferteLezer interface {
	ByID(ctx context.Context, bedrijfID, id uuid.UUID) (offertetransport.Offerte, error)
}

// Rekenaar is the variance engine surface the project service needs.
type Rekenaar interface {
	Nacalculatie(plan *calcservice.VoorcalculatiePlan, logs []calctransport.Urenregistratie, machines []calctransport.Machinegebruik, regels []calctransport.RegelSnapshot) (calctransport.NacalculatieResultaat, error)
}

// FotoOpslag provides presigned access to photo object storage. Nil when
// object storage is not configured; photo endpoints then refuse.
type FotoOpslag interface {
	PresignedUploadURL(ctx context.Context, objectKey string) (string, error)
	PresignedDownloadURL(ctx context.Context, objectKey string) (string, error)
}

// Service handles project business logic.
type Service struct {
	repo     Repository
	offertes OfferteLezer
	rekenaar Rekenaar
	opslag   FotoOpslag
	bus      events.Bus
	logger   *logger.Logger
	now      func() time.Time
}

// New creates a new projecten service
func New(repo Repository, offertes OfferteLezer, rekenaar Rekenaar, opslag FotoOpslag, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		offertes: offertes,
		rekenaar: rekenaar,
		opslag:   opslag,
		bus:      bus,
		logger:   log,
		now:      time.Now,
	}
}

// RegisterEventHandlers subscribes the service to the events it reacts to.
func (s *Service) RegisterEventHandlers(bus events.Bus) {
	bus.Subscribe(domainevents.EventOfferteGeaccepteerd, events.HandlerFunc(s.handleOfferteGeaccepteerd))
}

func (s *Service) handleOfferteGeaccepteerd(ctx context.Context, event events.Event) error {
	evt, ok := event.(domainevents.OfferteGeaccepteerd)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}
	_, err := s.CreateFromOfferte(ctx, evt.BedrijfID, evt.OfferteID)
	return err
}

// CreateFromOfferte creates a project carrying the offerte's scope data,
// regels and estimation snapshot as the frozen baseline.
func (s *Service) CreateFromOfferte(ctx context.Context, bedrijfID, offerteID uuid.UUID) (transport.Project, error) {
	offerte, err := s.offertes.ByID(ctx, bedrijfID, offerteID)
	if err != nil {
		return transport.Project{}, err
	}

	project := transport.Project{
		BedrijfID:  bedrijfID,
		OfferteID:  offerte.ID,
		Naam:       fmt.Sprintf("%s %s", offerte.Nummer, offerte.KlantNaam),
		Status:     transport.StatusGepland,
		KlantNaam:  offerte.KlantNaam,
		KlantEmail: offerte.KlantEmail,
		Scopes:     offerte.Scopes,
		Regels:     regelSnapshots(offerte.Regels),
		Plan:       planVanSnapshot(offerte.Voorcalculatie),
	}

	created, err := s.repo.Create(ctx, project)
	if err != nil {
		return transport.Project{}, err
	}
	s.logger.Info("project created from offerte", "project_id", created.ID, "offerte", offerte.Nummer)
	return created, nil
}

// ByID fetches one project.
func (s *Service) ByID(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Project, error) {
	return s.repo.ByID(ctx, bedrijfID, id)
}

// List returns the tenant's projects.
func (s *Service) List(ctx context.Context, bedrijfID uuid.UUID, filter transport.ListFilter) ([]transport.Project, error) {
	return s.repo.List(ctx, bedrijfID, filter)
}

// Start moves a planned project into execution.
func (s *Service) Start(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Project, error) {
	project, err := s.repo.ByID(ctx, bedrijfID, id)
	if err != nil {
		return transport.Project{}, err
	}
	if project.Status != transport.StatusGepland {
		return transport.Project{}, apperr.Conflict("alleen geplande projecten kunnen starten")
	}

	start := s.now()
	project.Status = transport.StatusInUitvoering
	project.StartDatum = &start
	return s.repo.Update(ctx, project)
}

// RondAf completes a project: the variance result is snapshotted and
// ProjectAfgerond is published so facturen can draft the invoice.
func (s *Service) RondAf(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Project, error) {
	project, err := s.repo.ByID(ctx, bedrijfID, id)
	if err != nil {
		return transport.Project{}, err
	}
	if project.Status != transport.StatusInUitvoering {
		return transport.Project{}, apperr.Conflict("alleen projecten in uitvoering kunnen worden afgerond")
	}

	eind := s.now()
	project.Status = transport.StatusAfgerond
	project.EindDatum = &eind

	// Best effort: a project without baseline completes without snapshot.
	if resultaat, err := s.berekenNacalculatie(ctx, project); err == nil {
		project.Nacalculatie = &resultaat
	}

	project, err = s.repo.Update(ctx, project)
	if err != nil {
		return transport.Project{}, err
	}

	s.bus.Publish(ctx, domainevents.ProjectAfgerond{
		BaseEvent:  events.NewBaseEvent(),
		ProjectID:  project.ID,
		BedrijfID:  project.BedrijfID,
		OfferteID:  project.OfferteID,
		Naam:       project.Naam,
		KlantNaam:  project.KlantNaam,
		KlantEmail: project.KlantEmail,
	})
	return project, nil
}

// LogUren appends an hour log entry. Entries are immutable once written.
func (s *Service) LogUren(ctx context.Context, bedrijfID, projectID uuid.UUID, req transport.UrenRequest) (calctransport.Urenregistratie, error) {
	project, err := s.repo.ByID(ctx, bedrijfID, projectID)
	if err != nil {
		return calctransport.Urenregistratie{}, err
	}
	if project.Status == transport.StatusAfgerond {
		return calctransport.Urenregistratie{}, apperr.Conflict("project is afgerond; uren kunnen niet meer worden geboekt")
	}

	datum, err := time.Parse("2006-01-02", req.Datum)
	if err != nil {
		return calctransport.Urenregistratie{}, apperr.BadRequest("ongeldige datum")
	}

	return s.repo.AddUren(ctx, bedrijfID, projectID, calctransport.Urenregistratie{
		Datum:      datum,
		Medewerker: req.Medewerker,
		Uren:       req.Uren,
		Scope:      req.Scope,
		Notitie:    req.Notitie,
	})
}

// Uren returns the project's hour log.
func (s *Service) Uren(ctx context.Context, bedrijfID, projectID uuid.UUID) ([]calctransport.Urenregistratie, error) {
	if _, err := s.repo.ByID(ctx, bedrijfID, projectID); err != nil {
		return nil, err
	}
	return s.repo.UrenVoorProject(ctx, bedrijfID, projectID)
}

// LogMachine appends a machine usage entry.
func (s *Service) LogMachine(ctx context.Context, bedrijfID, projectID uuid.UUID, req transport.MachineRequest) (calctransport.Machinegebruik, error) {
	project, err := s.repo.ByID(ctx, bedrijfID, projectID)
	if err != nil {
		return calctransport.Machinegebruik{}, err
	}
	if project.Status == transport.StatusAfgerond {
		return calctransport.Machinegebruik{}, apperr.Conflict("project is afgerond; machinegebruik kan niet meer worden geboekt")
	}

	datum, err := time.Parse("2006-01-02", req.Datum)
	if err != nil {
		return calctransport.Machinegebruik{}, apperr.BadRequest("ongeldige datum")
	}

	return s.repo.AddMachine(ctx, bedrijfID, projectID, req.Machine, calctransport.Machinegebruik{
		Datum:       datum,
		Uren:        req.Uren,
		KostenCents: req.KostenCents,
		Scope:       req.Scope,
	})
}

// Machines returns the project's machine usage log.
func (s *Service) Machines(ctx context.Context, bedrijfID, projectID uuid.UUID) ([]calctransport.Machinegebruik, error) {
	if _, err := s.repo.ByID(ctx, bedrijfID, projectID); err != nil {
		return nil, err
	}
	return s.repo.MachinesVoorProject(ctx, bedrijfID, projectID)
}

// Nacalculatie recomputes the variance analysis on demand.
func (s *Service) Nacalculatie(ctx context.Context, bedrijfID, projectID uuid.UUID) (calctransport.NacalculatieResultaat, error) {
	project, err := s.repo.ByID(ctx, bedrijfID, projectID)
	if err != nil {
		return calctransport.NacalculatieResultaat{}, err
	}
	return s.berekenNacalculatie(ctx, project)
}

func (s *Service) berekenNacalculatie(ctx context.Context, project transport.Project) (calctransport.NacalculatieResultaat, error) {
	var plan *calcservice.VoorcalculatiePlan
	if project.Plan != nil {
		plan = &calcservice.VoorcalculatiePlan{
			UrenPerScope:   project.Plan.UrenPerScope,
			TotaalUren:     project.Plan.TotaalUren,
			GeschatteDagen: project.Plan.GeschatteDagen,
		}
	}

	logs, err := s.repo.UrenVoorProject(ctx, project.BedrijfID, project.ID)
	if err != nil {
		return calctransport.NacalculatieResultaat{}, err
	}
	machines, err := s.repo.MachinesVoorProject(ctx, project.BedrijfID, project.ID)
	if err != nil {
		return calctransport.NacalculatieResultaat{}, err
	}

	return s.rekenaar.Nacalculatie(plan, logs, machines, project.Regels)
}

// SnapshotNacalculaties stores variance snapshots for recently completed
// projects that lack one. Called by the scheduler. Returns the number of
// snapshots written.
func (s *Service) SnapshotNacalculaties(ctx context.Context, sinds time.Time) (int, error) {
	projecten, err := s.repo.AfgerondeProjectenZonderNacalculatie(ctx, sinds)
	if err != nil {
		return 0, err
	}

	geschreven := 0
	for _, project := range projecten {
		resultaat, err := s.berekenNacalculatie(ctx, project)
		if err != nil {
			// No baseline; nothing to snapshot for this project.
			continue
		}
		project.Nacalculatie = &resultaat
		if _, err := s.repo.Update(ctx, project); err != nil {
			return geschreven, err
		}
		geschreven++

		s.bus.Publish(ctx, domainevents.NacalculatieAfgerond{
			BaseEvent:           events.NewBaseEvent(),
			ProjectID:           project.ID,
			BedrijfID:           project.BedrijfID,
			AfwijkingPercentage: resultaat.AfwijkingPercentage,
			Status:              string(resultaat.Status),
		})
	}
	return geschreven, nil
}

// RegistreerFoto stores photo metadata and returns a presigned upload URL.
func (s *Service) RegistreerFoto(ctx context.Context, bedrijfID, projectID uuid.UUID, req transport.FotoRequest) (transport.FotoUploadResponse, error) {
	if s.opslag == nil {
		return transport.FotoUploadResponse{}, apperr.BadRequest("fotobeheer is niet geconfigureerd")
	}
	if _, err := s.repo.ByID(ctx, bedrijfID, projectID); err != nil {
		return transport.FotoUploadResponse{}, err
	}

	objectKey := fmt.Sprintf("%s/%s/%s", bedrijfID, projectID, uuid.New())
	foto, err := s.repo.AddFoto(ctx, bedrijfID, transport.Foto{
		ProjectID: projectID,
		ObjectKey: objectKey,
		Bestand:   req.Bestand,
		Notitie:   req.Notitie,
	})
	if err != nil {
		return transport.FotoUploadResponse{}, err
	}

	uploadURL, err := s.opslag.PresignedUploadURL(ctx, objectKey)
	if err != nil {
		return transport.FotoUploadResponse{}, err
	}
	return transport.FotoUploadResponse{Foto: foto, UploadURL: uploadURL}, nil
}

// Fotos returns the project's photos with presigned download URLs.
func (s *Service) Fotos(ctx context.Context, bedrijfID, projectID uuid.UUID) ([]transport.Foto, map[uuid.UUID]string, error) {
	if s.opslag == nil {
		return nil, nil, apperr.BadRequest("fotobeheer is niet geconfigureerd")
	}
	if _, err := s.repo.ByID(ctx, bedrijfID, projectID); err != nil {
		return nil, nil, err
	}

	fotos, err := s.repo.FotosVoorProject(ctx, bedrijfID, projectID)
	if err != nil {
		return nil, nil, err
	}

	urls := make(map[uuid.UUID]string, len(fotos))
	for _, f := range fotos {
		u, err := s.opslag.PresignedDownloadURL(ctx, f.ObjectKey)
		if err != nil {
			s.logger.Warn("presign download failed", "foto_id", f.ID, "error", err)
			continue
		}
		urls[f.ID] = u
	}
	return fotos, urls, nil
}

func planVanSnapshot(snapshot *offertetransport.VoorcalculatieSnapshot) *transport.Plan {
	if snapshot == nil {
		return nil
	}
	plan := &transport.Plan{
		UrenPerScope: snapshot.Resultaat.UrenPerScope,
		TotaalUren:   snapshot.Resultaat.TotaalUren,
	}
	if snapshot.Duur != nil {
		plan.GeschatteDagen = snapshot.Duur.GeschatteDagen
		plan.TeamGrootte = snapshot.Duur.TeamGrootte
	}
	return plan
}

func regelSnapshots(regels []offertetransport.Regel) []calctransport.RegelSnapshot {
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
