package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	authtransport "groenportaal_backend/internal/auth/transport"
	calctransport "groenportaal_backend/internal/calculatie/transport"
	domainevents "groenportaal_backend/internal/events"
	"groenportaal_backend/internal/facturen/transport"
	projecttransport "groenportaal_backend/internal/projecten/transport"
	"groenportaal_backend/platform/apperr"
	"groenportaal_backend/platform/events"
	"groenportaal_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	facturen map[uuid.UUID]transport.Factuur
	teller   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{facturen: make(map[uuid.UUID]transport.Factuur)}
}

func (f *fakeRepo) NextFactuurNummer(_ context.Context, _ uuid.UUID, jaar int) (string, error) {
	f.teller++
	return fmt.Sprintf("FAC-%d-%04d", jaar, f.teller), nil
}

func (f *fakeRepo) Create(_ context.Context, factuur transport.Factuur) (transport.Factuur, error) {
	factuur.ID = uuid.New()
	factuur.CreatedAt = time.Now()
	factuur.UpdatedAt = factuur.CreatedAt
	f.facturen[factuur.ID] = factuur
	return factuur, nil
}

func (f *fakeRepo) ByID(_ context.Context, bedrijfID, id uuid.UUID) (transport.Factuur, error) {
	factuur, ok := f.facturen[id]
	if !ok || factuur.BedrijfID != bedrijfID {
		return transport.Factuur{}, apperr.NotFound("factuur niet gevonden")
	}
	return factuur, nil
}

func (f *fakeRepo) List(_ context.Context, bedrijfID uuid.UUID, _ transport.ListFilter) ([]transport.Factuur, error) {
	out := make([]transport.Factuur, 0)
	for _, factuur := range f.facturen {
		if factuur.BedrijfID == bedrijfID {
			out = append(out, factuur)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, bedrijfID, id uuid.UUID, van, naar transport.FactuurStatus) error {
	factuur, ok := f.facturen[id]
	if !ok || factuur.BedrijfID != bedrijfID || factuur.Status != van {
		return apperr.Conflict("factuur is inmiddels van status veranderd")
	}
	factuur.Status = naar
	f.facturen[id] = factuur
	return nil
}

func (f *fakeRepo) SetVervaldatum(_ context.Context, bedrijfID, id uuid.UUID, bron transport.Factuur) error {
	factuur, ok := f.facturen[id]
	if !ok || factuur.BedrijfID != bedrijfID {
		return apperr.NotFound("factuur niet gevonden")
	}
	factuur.Vervaldatum = bron.Vervaldatum
	f.facturen[id] = factuur
	return nil
}

type fakeProjecten struct {
	projecten map[uuid.UUID]projecttransport.Project
}

func (f *fakeProjecten) ByID(_ context.Context, bedrijfID, id uuid.UUID) (projecttransport.Project, error) {
	p, ok := f.projecten[id]
	if !ok || p.BedrijfID != bedrijfID {
		return projecttransport.Project{}, apperr.NotFound("project niet gevonden")
	}
	return p, nil
}

type fakeBedrijven struct {
	bedrijf authtransport.Bedrijf
}

func (f *fakeBedrijven) BedrijfByID(_ context.Context, _ uuid.UUID) (authtransport.Bedrijf, error) {
	return f.bedrijf, nil
}

func newTestService(bedrijf authtransport.Bedrijf) (*Service, *fakeRepo, *fakeProjecten, *events.InMemoryBus) {
	repo := newFakeRepo()
	projecten := &fakeProjecten{projecten: make(map[uuid.UUID]projecttransport.Project)}
	bus := events.NewInMemoryBus(logger.New("test"))
	svc := New(repo, projecten, &fakeBedrijven{bedrijf: bedrijf}, bus, logger.New("test"))
	return svc, repo, projecten, bus
}

func afgerondProject(bedrijfID uuid.UUID, nacalculatie *calctransport.NacalculatieResultaat) projecttransport.Project {
	return projecttransport.Project{
		ID:         uuid.New(),
		BedrijfID:  bedrijfID,
		Naam:       "OFF-2026-0001 Familie de Boer",
		Status:     projecttransport.StatusAfgerond,
		KlantNaam:  "Familie de Boer",
		KlantEmail: "deboer@voorbeeld.nl",
		Regels: []calctransport.RegelSnapshot{
			{Type: calctransport.RegelTypeArbeid, Omschrijving: "Aanleg", Hoeveelheid: 40, Eenheid: "uur", TotaalCents: 220000},
			{Type: calctransport.RegelTypeMateriaal, Omschrijving: "Tegels", Hoeveelheid: 40, Eenheid: "m2", TotaalCents: 100000},
		},
		Nacalculatie: nacalculatie,
	}
}

func TestCreateFromProject(t *testing.T) {
	bedrijfID := uuid.New()
	svc, _, projecten, _ := newTestService(authtransport.Bedrijf{})
	project := afgerondProject(bedrijfID, nil)
	projecten.projecten[project.ID] = project

	factuur, err := svc.CreateFromProject(context.Background(), bedrijfID, transport.CreateFactuurRequest{ProjectID: project.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if factuur.Status != transport.StatusConcept {
		t.Errorf("new factuur should be concept, got %s", factuur.Status)
	}
	if factuur.Nummer == "" {
		t.Error("factuur should get a number")
	}
	if len(factuur.Regels) != 2 {
		t.Fatalf("expected 2 regels, got %d", len(factuur.Regels))
	}
	// Eenheden van de offerteregels blijven op de factuur staan.
	if factuur.Regels[0].Eenheid != "uur" || factuur.Regels[1].Eenheid != "m2" {
		t.Errorf("regels should keep their eenheid, got %q en %q", factuur.Regels[0].Eenheid, factuur.Regels[1].Eenheid)
	}
	// 220000 + 100000 = 320000; btw 21% = 67200.
	if factuur.Totalen.SubtotaalCents != 320000 {
		t.Errorf("expected subtotaal 320000, got %d", factuur.Totalen.SubtotaalCents)
	}
	if factuur.Totalen.TotaalCents != 387200 {
		t.Errorf("expected totaal 387200, got %d", factuur.Totalen.TotaalCents)
	}
}

func TestCreateFromProjectMetMeerwerk(t *testing.T) {
	bedrijfID := uuid.New()
	svc, _, projecten, _ := newTestService(authtransport.Bedrijf{})
	project := afgerondProject(bedrijfID, &calctransport.NacalculatieResultaat{
		AfwijkingUren:       8,
		AfwijkingPercentage: 20,
	})
	projecten.projecten[project.ID] = project

	factuur, err := svc.CreateFromProject(context.Background(), bedrijfID, transport.CreateFactuurRequest{
		ProjectID:      project.ID,
		UurtariefCents: 5500,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(factuur.Regels) != 3 {
		t.Fatalf("expected correction regel, got %d regels", len(factuur.Regels))
	}

	correctie := factuur.Regels[2]
	if correctie.Soort != transport.SoortMeerwerk {
		t.Errorf("expected meerwerk, got %s", correctie.Soort)
	}
	// 8 uur * 5500 = 44000.
	if correctie.TotaalCents != 44000 {
		t.Errorf("expected 44000 cents, got %d", correctie.TotaalCents)
	}
	if factuur.Totalen.SubtotaalCents != 364000 {
		t.Errorf("expected subtotaal 364000, got %d", factuur.Totalen.SubtotaalCents)
	}
}

func TestCreateFromProjectMetMinderwerk(t *testing.T) {
	bedrijfID := uuid.New()
	svc, _, projecten, _ := newTestService(authtransport.Bedrijf{})
	project := afgerondProject(bedrijfID, &calctransport.NacalculatieResultaat{
		AfwijkingUren:       -4,
		AfwijkingPercentage: -10,
	})
	projecten.projecten[project.ID] = project

	factuur, err := svc.CreateFromProject(context.Background(), bedrijfID, transport.CreateFactuurRequest{
		ProjectID:      project.ID,
		UurtariefCents: 5000,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	correctie := factuur.Regels[len(factuur.Regels)-1]
	if correctie.Soort != transport.SoortMinderwerk {
		t.Errorf("expected minderwerk, got %s", correctie.Soort)
	}
	if correctie.TotaalCents != -20000 {
		t.Errorf("minderwerk should be negative, got %d", correctie.TotaalCents)
	}
	if correctie.Hoeveelheid != 4 {
		t.Errorf("hoeveelheid should be absolute, got %v", correctie.Hoeveelheid)
	}
	if factuur.Totalen.SubtotaalCents != 300000 {
		t.Errorf("expected subtotaal 300000, got %d", factuur.Totalen.SubtotaalCents)
	}
}

func TestCreateFromProjectOnderDrempelGeenCorrectie(t *testing.T) {
	bedrijfID := uuid.New()
	svc, _, projecten, _ := newTestService(authtransport.Bedrijf{})
	project := afgerondProject(bedrijfID, &calctransport.NacalculatieResultaat{
		AfwijkingUren:       1.2,
		AfwijkingPercentage: 3,
	})
	projecten.projecten[project.ID] = project

	factuur, err := svc.CreateFromProject(context.Background(), bedrijfID, transport.CreateFactuurRequest{
		ProjectID:      project.ID,
		UurtariefCents: 5000,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(factuur.Regels) != 2 {
		t.Errorf("deviation under threshold should not add a correction, got %d regels", len(factuur.Regels))
	}
}

func TestCreateFromProjectNietAfgerond(t *testing.T) {
	bedrijfID := uuid.New()
	svc, _, projecten, _ := newTestService(authtransport.Bedrijf{})
	project := afgerondProject(bedrijfID, nil)
	project.Status = projecttransport.StatusInUitvoering
	projecten.projecten[project.ID] = project

	_, err := svc.CreateFromProject(context.Background(), bedrijfID, transport.CreateFactuurRequest{ProjectID: project.ID})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("invoicing an unfinished project should conflict, got %v", err)
	}
}

func TestVerzendZetVervaldatumEnPubliceert(t *testing.T) {
	bedrijfID := uuid.New()
	svc, repo, projecten, bus := newTestService(authtransport.Bedrijf{})
	project := afgerondProject(bedrijfID, nil)
	projecten.projecten[project.ID] = project

	factuur, err := svc.CreateFromProject(context.Background(), bedrijfID, transport.CreateFactuurRequest{ProjectID: project.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	ontvangen := make(chan events.Event, 1)
	bus.Subscribe(domainevents.EventFactuurVerzonden, events.HandlerFunc(func(_ context.Context, e events.Event) error {
		ontvangen <- e
		return nil
	}))

	verzonden, err := svc.Verzend(context.Background(), bedrijfID, factuur.ID)
	if err != nil {
		t.Fatalf("verzend failed: %v", err)
	}
	if verzonden.Status != transport.StatusVerzonden {
		t.Errorf("expected verzonden, got %s", verzonden.Status)
	}
	if verzonden.Vervaldatum == nil {
		t.Fatal("verzend should set vervaldatum")
	}
	verwacht := time.Now().AddDate(0, 0, betalingstermijnDagen)
	if verzonden.Vervaldatum.Sub(verwacht) > time.Minute {
		t.Errorf("vervaldatum should be %d days out, got %v", betalingstermijnDagen, verzonden.Vervaldatum)
	}
	if repo.facturen[factuur.ID].Vervaldatum == nil {
		t.Error("vervaldatum should be persisted")
	}

	select {
	case e := <-ontvangen:
		evt := e.(domainevents.FactuurVerzonden)
		if evt.FactuurID != factuur.ID {
			t.Error("event carries wrong factuur id")
		}
	case <-time.After(time.Second):
		t.Fatal("expected FactuurVerzonden event")
	}
}

func TestMarkeerBetaaldAlleenVerzonden(t *testing.T) {
	bedrijfID := uuid.New()
	svc, _, projecten, _ := newTestService(authtransport.Bedrijf{})
	project := afgerondProject(bedrijfID, nil)
	projecten.projecten[project.ID] = project

	factuur, err := svc.CreateFromProject(context.Background(), bedrijfID, transport.CreateFactuurRequest{ProjectID: project.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.MarkeerBetaald(context.Background(), bedrijfID, factuur.ID); apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("paying a concept should conflict, got %v", err)
	}

	if _, err := svc.Verzend(context.Background(), bedrijfID, factuur.ID); err != nil {
		t.Fatalf("verzend failed: %v", err)
	}
	betaald, err := svc.MarkeerBetaald(context.Background(), bedrijfID, factuur.ID)
	if err != nil {
		t.Fatalf("markeer betaald failed: %v", err)
	}
	if betaald.Status != transport.StatusBetaald {
		t.Errorf("expected betaald, got %s", betaald.Status)
	}
}

func TestBetaalQR(t *testing.T) {
	bedrijfID := uuid.New()
	bedrijf := authtransport.Bedrijf{Naam: "Groenbedrijf Jansen", IBAN: "NL91ABNA0417164300"}
	svc, _, projecten, _ := newTestService(bedrijf)
	project := afgerondProject(bedrijfID, nil)
	projecten.projecten[project.ID] = project

	factuur, err := svc.CreateFromProject(context.Background(), bedrijfID, transport.CreateFactuurRequest{ProjectID: project.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.BetaalQR(context.Background(), bedrijfID, factuur.ID); apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("concept factuur should have no QR yet, got %v", err)
	}

	if _, err := svc.Verzend(context.Background(), bedrijfID, factuur.ID); err != nil {
		t.Fatalf("verzend failed: %v", err)
	}
	png, err := svc.BetaalQR(context.Background(), bedrijfID, factuur.ID)
	if err != nil {
		t.Fatalf("betaal-qr failed: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("expected a PNG image")
	}
}

func TestBetaalQRZonderIBAN(t *testing.T) {
	bedrijfID := uuid.New()
	svc, _, projecten, _ := newTestService(authtransport.Bedrijf{Naam: "Groenbedrijf Jansen"})
	project := afgerondProject(bedrijfID, nil)
	projecten.projecten[project.ID] = project

	factuur, err := svc.CreateFromProject(context.Background(), bedrijfID, transport.CreateFactuurRequest{ProjectID: project.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Verzend(context.Background(), bedrijfID, factuur.ID); err != nil {
		t.Fatalf("verzend failed: %v", err)
	}

	if _, err := svc.BetaalQR(context.Background(), bedrijfID, factuur.ID); apperr.GetKind(err) != apperr.KindBadRequest {
		t.Errorf("missing IBAN should be a bad request, got %v", err)
	}
}

func TestEpcPayload(t *testing.T) {
	payload := epcPayload("Groenbedrijf Jansen", "nl91 abna 0417 1643 00", 187550, "Factuur FAC-2026-0001")

	verwacht := "BCD\n002\n1\nSCT\n\nGroenbedrijf Jansen\nNL91ABNA0417164300\nEUR1875.50\n\n\nFactuur FAC-2026-0001"
	if payload != verwacht {
		t.Errorf("unexpected payload:\n%q\nwant:\n%q", payload, verwacht)
	}
}
