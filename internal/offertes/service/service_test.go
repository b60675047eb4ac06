package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	calctransport "groenportaal_backend/internal/calculatie/transport"
	domainevents "groenportaal_backend/internal/events"
	"groenportaal_backend/internal/offertes/transport"
	"groenportaal_backend/platform/apperr"
	"groenportaal_backend/platform/events"
	"groenportaal_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	offertes map[uuid.UUID]transport.Offerte
	teller   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{offertes: make(map[uuid.UUID]transport.Offerte)}
}

func (f *fakeRepo) NextOfferteNummer(_ context.Context, _ uuid.UUID, jaar int) (string, error) {
	f.teller++
	return fmt.Sprintf("OFF-%d-%04d", jaar, f.teller), nil
}

func (f *fakeRepo) Create(_ context.Context, o transport.Offerte) (transport.Offerte, error) {
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	f.offertes[o.ID] = o
	return o, nil
}

func (f *fakeRepo) Update(_ context.Context, o transport.Offerte) (transport.Offerte, error) {
	if _, ok := f.offertes[o.ID]; !ok {
		return transport.Offerte{}, apperr.NotFound("offerte niet gevonden")
	}
	o.UpdatedAt = time.Now()
	f.offertes[o.ID] = o
	return o, nil
}

func (f *fakeRepo) ByID(_ context.Context, bedrijfID, id uuid.UUID) (transport.Offerte, error) {
	o, ok := f.offertes[id]
	if !ok || o.BedrijfID != bedrijfID {
		return transport.Offerte{}, apperr.NotFound("offerte niet gevonden")
	}
	return o, nil
}

func (f *fakeRepo) List(_ context.Context, bedrijfID uuid.UUID, _ transport.ListFilter) ([]transport.Offerte, error) {
	out := make([]transport.Offerte, 0)
	for _, o := range f.offertes {
		if o.BedrijfID == bedrijfID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) VerlopenKandidaten(_ context.Context, peildatum time.Time) ([]transport.Offerte, error) {
	out := make([]transport.Offerte, 0)
	for _, o := range f.offertes {
		if o.Status == transport.StatusVerzonden && o.GeldigTot != nil && o.GeldigTot.Before(peildatum) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, bedrijfID, id uuid.UUID, van, naar transport.OfferteStatus) error {
	o, ok := f.offertes[id]
	if !ok || o.BedrijfID != bedrijfID || o.Status != van {
		return apperr.Conflict("offerte is inmiddels van status veranderd")
	}
	o.Status = naar
	f.offertes[id] = o
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, bedrijfID, id uuid.UUID) error {
	o, ok := f.offertes[id]
	if !ok || o.BedrijfID != bedrijfID || o.Status != transport.StatusConcept {
		return apperr.NotFound("concept offerte niet gevonden")
	}
	delete(f.offertes, id)
	return nil
}

type fakeCalculator struct{}

func (fakeCalculator) Voorcalculatie(_ context.Context, _ uuid.UUID, req calctransport.VoorcalculatieRequest) (calctransport.VoorcalculatieResponse, error) {
	return calctransport.VoorcalculatieResponse{
		Resultaat: calctransport.VoorcalculatieResultaat{
			TotaalUren:               42,
			BereikbaarheidsFactor:    1.0,
			AchterstalligheidsFactor: 1.0,
		},
	}, nil
}

func newTestService() (*Service, *fakeRepo, *events.InMemoryBus) {
	repo := newFakeRepo()
	bus := events.NewInMemoryBus(logger.New("test"))
	svc := New(repo, fakeCalculator{}, bus, logger.New("test"))
	return svc, repo, bus
}

func maakOfferte(t *testing.T, svc *Service, bedrijfID uuid.UUID) transport.Offerte {
	t.Helper()
	offerte, err := svc.Create(context.Background(), bedrijfID, transport.CreateOfferteRequest{
		KlantNaam:  "Familie de Boer",
		KlantEmail: "deboer@voorbeeld.nl",
		Regels: []transport.RegelRequest{
			{Type: calctransport.RegelTypeArbeid, Omschrijving: "Aanleg", Hoeveelheid: 10, Eenheid: "uur", PrijsPerEenheidCents: 5500, BTWTarief: 21},
			{Type: calctransport.RegelTypeMateriaal, Omschrijving: "Tegels", Hoeveelheid: 40, Eenheid: "m2", PrijsPerEenheidCents: 2500, BTWTarief: 21},
		},
	})
	if err != nil {
		t.Fatalf("create offerte failed: %v", err)
	}
	return offerte
}

func TestCreateOfferte(t *testing.T) {
	svc, _, _ := newTestService()
	bedrijfID := uuid.New()

	offerte := maakOfferte(t, svc, bedrijfID)

	if offerte.Status != transport.StatusConcept {
		t.Errorf("new offerte should be concept, got %s", offerte.Status)
	}
	if offerte.Nummer == "" {
		t.Error("offerte should get a number")
	}
	// 10*5500 + 40*2500 = 155000; btw 21% = 32550.
	if offerte.Totalen.SubtotaalCents != 155000 {
		t.Errorf("expected subtotaal 155000, got %d", offerte.Totalen.SubtotaalCents)
	}
	if offerte.Totalen.TotaalCents != 187550 {
		t.Errorf("expected totaal 187550, got %d", offerte.Totalen.TotaalCents)
	}
}

func TestOfferteNummersZijnUniek(t *testing.T) {
	svc, _, _ := newTestService()
	bedrijfID := uuid.New()

	eerste := maakOfferte(t, svc, bedrijfID)
	tweede := maakOfferte(t, svc, bedrijfID)

	if eerste.Nummer == tweede.Nummer {
		t.Errorf("offerte numbers must be unique, both got %s", eerste.Nummer)
	}
}

func TestVerzendZetGeldigTotEnPubliceert(t *testing.T) {
	svc, _, bus := newTestService()
	bedrijfID := uuid.New()
	offerte := maakOfferte(t, svc, bedrijfID)

	ontvangen := make(chan events.Event, 1)
	bus.Subscribe(domainevents.EventOfferteVerzonden, events.HandlerFunc(func(_ context.Context, e events.Event) error {
		ontvangen <- e
		return nil
	}))

	verzonden, err := svc.Verzend(context.Background(), bedrijfID, offerte.ID)
	if err != nil {
		t.Fatalf("verzend failed: %v", err)
	}
	if verzonden.Status != transport.StatusVerzonden {
		t.Errorf("expected verzonden, got %s", verzonden.Status)
	}
	if verzonden.GeldigTot == nil {
		t.Fatal("verzend should set geldig-tot")
	}

	select {
	case e := <-ontvangen:
		evt := e.(domainevents.OfferteVerzonden)
		if evt.OfferteID != offerte.ID {
			t.Errorf("event carries wrong offerte id")
		}
	case <-time.After(time.Second):
		t.Fatal("expected OfferteVerzonden event")
	}
}

func TestAccepteerPubliceertEvent(t *testing.T) {
	svc, _, bus := newTestService()
	bedrijfID := uuid.New()
	offerte := maakOfferte(t, svc, bedrijfID)

	ontvangen := make(chan events.Event, 1)
	bus.Subscribe(domainevents.EventOfferteGeaccepteerd, events.HandlerFunc(func(_ context.Context, e events.Event) error {
		ontvangen <- e
		return nil
	}))

	if _, err := svc.Verzend(context.Background(), bedrijfID, offerte.ID); err != nil {
		t.Fatalf("verzend failed: %v", err)
	}
	geaccepteerd, err := svc.Accepteer(context.Background(), bedrijfID, offerte.ID)
	if err != nil {
		t.Fatalf("accepteer failed: %v", err)
	}
	if geaccepteerd.Status != transport.StatusGeaccepteerd {
		t.Errorf("expected geaccepteerd, got %s", geaccepteerd.Status)
	}

	select {
	case <-ontvangen:
	case <-time.After(time.Second):
		t.Fatal("expected OfferteGeaccepteerd event")
	}
}

func TestAccepteerConceptNietToegestaan(t *testing.T) {
	svc, _, _ := newTestService()
	bedrijfID := uuid.New()
	offerte := maakOfferte(t, svc, bedrijfID)

	_, err := svc.Accepteer(context.Background(), bedrijfID, offerte.ID)
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("accepting a concept should conflict, got %v", err)
	}
}

func TestUpdateAlleenConcept(t *testing.T) {
	svc, _, _ := newTestService()
	bedrijfID := uuid.New()
	offerte := maakOfferte(t, svc, bedrijfID)

	if _, err := svc.Verzend(context.Background(), bedrijfID, offerte.ID); err != nil {
		t.Fatalf("verzend failed: %v", err)
	}

	_, err := svc.Update(context.Background(), bedrijfID, offerte.ID, transport.UpdateOfferteRequest{
		KlantNaam:  "Nieuwe Naam",
		KlantEmail: "nieuw@voorbeeld.nl",
	})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("updating a sent offerte should conflict, got %v", err)
	}
}

func TestVoorcalculatieSnapshot(t *testing.T) {
	svc, _, _ := newTestService()
	bedrijfID := uuid.New()
	offerte := maakOfferte(t, svc, bedrijfID)

	bijgewerkt, err := svc.Voorcalculatie(context.Background(), bedrijfID, offerte.ID, transport.VoorcalculatieRequest{})
	if err != nil {
		t.Fatalf("voorcalculatie failed: %v", err)
	}
	if bijgewerkt.Voorcalculatie == nil {
		t.Fatal("expected stored snapshot")
	}
	if bijgewerkt.Voorcalculatie.Resultaat.TotaalUren != 42 {
		t.Errorf("expected snapshot with engine result, got %v", bijgewerkt.Voorcalculatie.Resultaat.TotaalUren)
	}

	// Een update maakt de snapshot ongeldig.
	naUpdate, err := svc.Update(context.Background(), bedrijfID, offerte.ID, transport.UpdateOfferteRequest{
		KlantNaam:  "Familie de Boer",
		KlantEmail: "deboer@voorbeeld.nl",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if naUpdate.Voorcalculatie != nil {
		t.Error("update should clear the stored snapshot")
	}
}

func TestMarkeerVerlopen(t *testing.T) {
	svc, repo, _ := newTestService()
	bedrijfID := uuid.New()
	offerte := maakOfferte(t, svc, bedrijfID)

	if _, err := svc.Verzend(context.Background(), bedrijfID, offerte.ID); err != nil {
		t.Fatalf("verzend failed: %v", err)
	}

	// Zet de geldigheid in het verleden.
	opgeslagen := repo.offertes[offerte.ID]
	verleden := time.Now().Add(-24 * time.Hour)
	opgeslagen.GeldigTot = &verleden
	repo.offertes[offerte.ID] = opgeslagen

	aantal, err := svc.MarkeerVerlopen(context.Background())
	if err != nil {
		t.Fatalf("markeer verlopen failed: %v", err)
	}
	if aantal != 1 {
		t.Errorf("expected 1 expired offerte, got %d", aantal)
	}
	if repo.offertes[offerte.ID].Status != transport.StatusVerlopen {
		t.Errorf("offerte should be verlopen, got %s", repo.offertes[offerte.ID].Status)
	}
}
