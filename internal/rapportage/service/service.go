// Package service builds the rapportage dashboards: monthly aggregates,
// estimation accuracy and a regression-based forecast.
package service

import (
	"context"
	"math"
	"time"

	calcservice "groenportaal_backend/internal/calculatie/service"
	"groenportaal_backend/internal/rapportage/transport"
	"groenportaal_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Default and maximum window for the monthly overview.
const (
	standaardMaanden = 6
	maxMaanden       = 24
	prognosePeriodes = 3
)

// Repository defines the aggregate queries the reporting service needs.
type Repository interface {
	UrenPerMaand(ctx context.Context, bedrijfID uuid.UUID, vanaf time.Time) ([]transport.MaandTotaal, error)
	OmzetPerMaand(ctx context.Context, bedrijfID uuid.UUID, vanaf time.Time) ([]transport.MaandBedrag, error)
	AfgerondPerMaand(ctx context.Context, bedrijfID uuid.UUID, vanaf time.Time) ([]transport.MaandTotaal, error)
	Afwijkingen(ctx context.Context, bedrijfID uuid.UUID) ([]int, map[string]int, error)
}

// Service handles reporting business logic.
type Service struct {
	repo   Repository
	logger *logger.Logger
	now    func() time.Time
}

// New creates a new rapportage service
func New(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, logger: log, now: time.Now}
}

// Overzicht returns the aggregates for the last maanden calendar months,
// including the current one. Months without activity appear with zeroes so
// charts stay contiguous.
func (s *Service) Overzicht(ctx context.Context, bedrijfID uuid.UUID, maanden int) (transport.Overzicht, error) {
	if maanden <= 0 {
		maanden = standaardMaanden
	}
	if maanden > maxMaanden {
		maanden = maxMaanden
	}
	vanaf := maandStart(s.now()).AddDate(0, -(maanden - 1), 0)

	// The aggregates are independent queries; fetch them concurrently.
	var (
		uren     []transport.MaandTotaal
		omzet    []transport.MaandBedrag
		afgerond []transport.MaandTotaal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		uren, err = s.repo.UrenPerMaand(gctx, bedrijfID, vanaf)
		return err
	})
	g.Go(func() error {
		var err error
		omzet, err = s.repo.OmzetPerMaand(gctx, bedrijfID, vanaf)
		return err
	})
	g.Go(func() error {
		var err error
		afgerond, err = s.repo.AfgerondPerMaand(gctx, bedrijfID, vanaf)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.Overzicht{}, err
	}

	urenPer := make(map[string]float64, len(uren))
	for _, t := range uren {
		urenPer[t.Maand] = t.Waarde
	}
	omzetPer := make(map[string]int64, len(omzet))
	for _, b := range omzet {
		omzetPer[b.Maand] = b.Cents
	}
	afgerondPer := make(map[string]int, len(afgerond))
	for _, t := range afgerond {
		afgerondPer[t.Maand] = int(t.Waarde)
	}

	cijfers := make([]transport.Maandcijfers, 0, maanden)
	for i := 0; i < maanden; i++ {
		maand := vanaf.AddDate(0, i, 0).Format("2006-01")
		cijfers = append(cijfers, transport.Maandcijfers{
			Maand:              maand,
			GelogdeUren:        urenPer[maand],
			GefactureerdCents:  omzetPer[maand],
			AfgerondeProjecten: afgerondPer[maand],
		})
	}

	nauwkeurigheid, err := s.nauwkeurigheid(ctx, bedrijfID)
	if err != nil {
		return transport.Overzicht{}, err
	}

	return transport.Overzicht{Maanden: cijfers, Nauwkeurigheid: nauwkeurigheid}, nil
}

// Prognose fits a trend through the recent monthly totals and projects it
// three months ahead. With little or no history the forecast degrades
// gracefully towards zero or a flat line.
func (s *Service) Prognose(ctx context.Context, bedrijfID uuid.UUID) (transport.Prognose, error) {
	vanaf := maandStart(s.now()).AddDate(0, -(standaardMaanden - 1), 0)

	uren, err := s.repo.UrenPerMaand(ctx, bedrijfID, vanaf)
	if err != nil {
		return transport.Prognose{}, err
	}
	omzet, err := s.repo.OmzetPerMaand(ctx, bedrijfID, vanaf)
	if err != nil {
		return transport.Prognose{}, err
	}

	urenPer := make(map[string]float64, len(uren))
	for _, t := range uren {
		urenPer[t.Maand] = t.Waarde
	}
	omzetPer := make(map[string]int64, len(omzet))
	for _, b := range omzet {
		omzetPer[b.Maand] = b.Cents
	}

	prognose := transport.Prognose{
		Maanden:            make([]string, 0, standaardMaanden),
		UrenHistorie:       make([]float64, 0, standaardMaanden),
		OmzetHistorieCents: make([]int64, 0, standaardMaanden),
	}
	urenPunten := make([]calcservice.Punt, 0, standaardMaanden)
	omzetPunten := make([]calcservice.Punt, 0, standaardMaanden)
	for i := 0; i < standaardMaanden; i++ {
		maand := vanaf.AddDate(0, i, 0).Format("2006-01")
		x := float64(i + 1)
		prognose.Maanden = append(prognose.Maanden, maand)
		prognose.UrenHistorie = append(prognose.UrenHistorie, urenPer[maand])
		prognose.OmzetHistorieCents = append(prognose.OmzetHistorieCents, omzetPer[maand])
		urenPunten = append(urenPunten, calcservice.Punt{X: x, Y: urenPer[maand]})
		omzetPunten = append(omzetPunten, calcservice.Punt{X: x, Y: float64(omzetPer[maand])})
	}

	prognose.UrenPrognose = calcservice.Voorspel(urenPunten, prognosePeriodes)
	omzetVoorspelling := calcservice.Voorspel(omzetPunten, prognosePeriodes)
	prognose.OmzetPrognoseCents = make([]int64, 0, prognosePeriodes)
	for _, v := range omzetVoorspelling {
		prognose.OmzetPrognoseCents = append(prognose.OmzetPrognoseCents, int64(v))
	}
	return prognose, nil
}

func (s *Service) nauwkeurigheid(ctx context.Context, bedrijfID uuid.UUID) (transport.Nauwkeurigheid, error) {
	afwijkingen, perStatus, err := s.repo.Afwijkingen(ctx, bedrijfID)
	if err != nil {
		return transport.Nauwkeurigheid{}, err
	}

	n := transport.Nauwkeurigheid{
		AantalProjecten: len(afwijkingen),
		PerStatus:       perStatus,
	}
	if len(afwijkingen) == 0 {
		return n, nil
	}

	var som float64
	for _, pct := range afwijkingen {
		som += math.Abs(float64(pct))
	}
	n.GemiddeldeAfwijking = math.Round(som/float64(len(afwijkingen))*10) / 10
	return n, nil
}

func maandStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
