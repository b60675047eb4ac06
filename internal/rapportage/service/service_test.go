package service

import (
	"context"
	"testing"
	"time"

	"groenportaal_backend/internal/rapportage/transport"
	"groenportaal_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	uren        []transport.MaandTotaal
	omzet       []transport.MaandBedrag
	afgerond    []transport.MaandTotaal
	afwijkingen []int
	perStatus   map[string]int
}

func (f *fakeRepo) UrenPerMaand(_ context.Context, _ uuid.UUID, _ time.Time) ([]transport.MaandTotaal, error) {
	return f.uren, nil
}

func (f *fakeRepo) OmzetPerMaand(_ context.Context, _ uuid.UUID, _ time.Time) ([]transport.MaandBedrag, error) {
	return f.omzet, nil
}

func (f *fakeRepo) AfgerondPerMaand(_ context.Context, _ uuid.UUID, _ time.Time) ([]transport.MaandTotaal, error) {
	return f.afgerond, nil
}

func (f *fakeRepo) Afwijkingen(_ context.Context, _ uuid.UUID) ([]int, map[string]int, error) {
	return f.afwijkingen, f.perStatus, nil
}

func newTestService(repo *fakeRepo) *Service {
	svc := New(repo, logger.New("test"))
	// Vaste klok: juni 2026.
	svc.now = func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestOverzichtVultLegeMaandenAan(t *testing.T) {
	repo := &fakeRepo{
		uren: []transport.MaandTotaal{
			{Maand: "2026-04", Waarde: 120},
			{Maand: "2026-06", Waarde: 80},
		},
		omzet: []transport.MaandBedrag{
			{Maand: "2026-04", Cents: 1250000},
		},
		afgerond: []transport.MaandTotaal{
			{Maand: "2026-04", Waarde: 2},
		},
	}
	svc := newTestService(repo)

	overzicht, err := svc.Overzicht(context.Background(), uuid.New(), 6)
	if err != nil {
		t.Fatalf("overzicht failed: %v", err)
	}

	if len(overzicht.Maanden) != 6 {
		t.Fatalf("expected 6 months, got %d", len(overzicht.Maanden))
	}
	if overzicht.Maanden[0].Maand != "2026-01" {
		t.Errorf("window should start at 2026-01, got %s", overzicht.Maanden[0].Maand)
	}
	if overzicht.Maanden[5].Maand != "2026-06" {
		t.Errorf("window should end at the current month, got %s", overzicht.Maanden[5].Maand)
	}

	april := overzicht.Maanden[3]
	if april.GelogdeUren != 120 || april.GefactureerdCents != 1250000 || april.AfgerondeProjecten != 2 {
		t.Errorf("april aggregates wrong: %+v", april)
	}
	// Mei heeft geen activiteit en moet op nul staan.
	mei := overzicht.Maanden[4]
	if mei.GelogdeUren != 0 || mei.GefactureerdCents != 0 || mei.AfgerondeProjecten != 0 {
		t.Errorf("empty month should be zero, got %+v", mei)
	}
}

func TestOverzichtNauwkeurigheid(t *testing.T) {
	repo := &fakeRepo{
		afwijkingen: []int{10, -20, 0, 6},
		perStatus:   map[string]int{"good": 2, "warning": 2},
	}
	svc := newTestService(repo)

	overzicht, err := svc.Overzicht(context.Background(), uuid.New(), 1)
	if err != nil {
		t.Fatalf("overzicht failed: %v", err)
	}

	n := overzicht.Nauwkeurigheid
	if n.AantalProjecten != 4 {
		t.Errorf("expected 4 projects, got %d", n.AantalProjecten)
	}
	// (10+20+0+6)/4 = 9.
	if n.GemiddeldeAfwijking != 9 {
		t.Errorf("expected gemiddelde 9, got %v", n.GemiddeldeAfwijking)
	}
	if n.PerStatus["good"] != 2 {
		t.Errorf("expected 2 good projects, got %d", n.PerStatus["good"])
	}
}

func TestOverzichtZonderNacalculaties(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	overzicht, err := svc.Overzicht(context.Background(), uuid.New(), 3)
	if err != nil {
		t.Fatalf("overzicht failed: %v", err)
	}
	if overzicht.Nauwkeurigheid.AantalProjecten != 0 || overzicht.Nauwkeurigheid.GemiddeldeAfwijking != 0 {
		t.Errorf("no snapshots should give a zero accuracy block, got %+v", overzicht.Nauwkeurigheid)
	}
}

func TestPrognoseStijgendeTrend(t *testing.T) {
	// Lineair oplopende uren: 10, 20, ..., 60.
	repo := &fakeRepo{
		uren: []transport.MaandTotaal{
			{Maand: "2026-01", Waarde: 10},
			{Maand: "2026-02", Waarde: 20},
			{Maand: "2026-03", Waarde: 30},
			{Maand: "2026-04", Waarde: 40},
			{Maand: "2026-05", Waarde: 50},
			{Maand: "2026-06", Waarde: 60},
		},
	}
	svc := newTestService(repo)

	prognose, err := svc.Prognose(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("prognose failed: %v", err)
	}

	if len(prognose.UrenPrognose) != 3 {
		t.Fatalf("expected 3 forecast periods, got %d", len(prognose.UrenPrognose))
	}
	verwacht := []int{70, 80, 90}
	for i, v := range verwacht {
		if prognose.UrenPrognose[i] != v {
			t.Errorf("period %d: expected %d, got %d", i+1, v, prognose.UrenPrognose[i])
		}
	}
	if len(prognose.Maanden) != 6 || prognose.Maanden[0] != "2026-01" {
		t.Errorf("history window wrong: %v", prognose.Maanden)
	}
}

func TestPrognoseZonderHistorie(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	prognose, err := svc.Prognose(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("prognose failed: %v", err)
	}
	for _, v := range prognose.UrenPrognose {
		if v != 0 {
			t.Errorf("empty history should forecast 0, got %v", prognose.UrenPrognose)
		}
	}
	for _, v := range prognose.OmzetPrognoseCents {
		if v != 0 {
			t.Errorf("empty history should forecast 0 omzet, got %v", prognose.OmzetPrognoseCents)
		}
	}
}
