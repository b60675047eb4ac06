package service

import (
	"context"

	"groenportaal_backend/internal/calculatie/repository"
	"groenportaal_backend/internal/calculatie/transport"

	"github.com/google/uuid"
)

// Service provides catalog management and runs the calculation engines with
// the tenant's effective catalogs.
type Service struct {
	repo *repository.Repository
}

// New creates a new calculatie service
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Normuren returns the effective unit-rate catalog for a tenant.
func (s *Service) Normuren(ctx context.Context, tenantID uuid.UUID) ([]transport.Normuur, error) {
	return s.repo.ListNormuren(ctx, tenantID)
}

// SaveNormuur stores a tenant override for a unit rate.
func (s *Service) SaveNormuur(ctx context.Context, tenantID uuid.UUID, req transport.NormuurRequest) (transport.Normuur, error) {
	return s.repo.UpsertNormuurOverride(ctx, tenantID, transport.Normuur{
		Scope:             req.Scope,
		ActiviteitKey:     req.ActiviteitKey,
		Activiteit:        req.Activiteit,
		Eenheid:           req.Eenheid,
		NormuurPerEenheid: req.NormuurPerEenheid,
	})
}

// DeleteNormuur removes a tenant override.
func (s *Service) DeleteNormuur(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.DeleteNormuurOverride(ctx, tenantID, id)
}

// Correctiefactoren returns the effective factor catalog for a tenant.
func (s *Service) Correctiefactoren(ctx context.Context, tenantID uuid.UUID) ([]transport.Correctiefactor, error) {
	return s.repo.ListCorrectiefactoren(ctx, tenantID)
}

// SaveCorrectiefactor stores a tenant override for a correction factor.
func (s *Service) SaveCorrectiefactor(ctx context.Context, tenantID uuid.UUID, req transport.CorrectiefactorRequest) (transport.Correctiefactor, error) {
	return s.repo.UpsertCorrectiefactorOverride(ctx, tenantID, transport.Correctiefactor{
		Type:   req.Type,
		Waarde: req.Waarde,
		Factor: req.Factor,
	})
}

// DeleteCorrectiefactor removes a tenant override.
func (s *Service) DeleteCorrectiefactor(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.DeleteCorrectiefactorOverride(ctx, tenantID, id)
}

// Voorcalculatie fetches the tenant's catalogs and runs the estimation
// engine over the supplied scope data.
func (s *Service) Voorcalculatie(ctx context.Context, tenantID uuid.UUID, req transport.VoorcalculatieRequest) (transport.VoorcalculatieResponse, error) {
	normuren, err := s.repo.ListNormuren(ctx, tenantID)
	if err != nil {
		return transport.VoorcalculatieResponse{}, err
	}
	factoren, err := s.repo.ListCorrectiefactoren(ctx, tenantID)
	if err != nil {
		return transport.VoorcalculatieResponse{}, err
	}

	resultaat := BerekenVoorcalculatie(VoorcalculatieInvoer{
		Scopes:   req.Scopes,
		Globaal:  req.Globaal,
		Normuren: normuren,
		Factoren: factoren,
		Regels:   req.Regels,
	})

	resp := transport.VoorcalculatieResponse{Resultaat: resultaat}
	if req.TeamGrootte > 0 {
		duur := BerekenProjectDuur(resultaat.TotaalUren, req.TeamGrootte, req.UrenPerDag)
		resp.Duur = &duur
		if req.BufferPercentage > 0 {
			metBuffer := BerekenProjectDuurMetBuffer(resultaat.TotaalUren, req.TeamGrootte, req.UrenPerDag, req.BufferPercentage)
			resp.DuurMetBuffer = &metBuffer
		}
	}

	return resp, nil
}

// Nacalculatie runs the variance engine. It is a pure passthrough: the
// caller (projecten module) supplies the plan and the logged data.
func (s *Service) Nacalculatie(
	plan *VoorcalculatiePlan,
	logs []transport.Urenregistratie,
	machines []transport.Machinegebruik,
	regels []transport.RegelSnapshot,
) (transport.NacalculatieResultaat, error) {
	return BerekenNacalculatie(plan, logs, machines, regels)
}

// SeedSystemCatalog loads the YAML seed file and inserts missing system defaults.
func (s *Service) SeedSystemCatalog(ctx context.Context, seedPath string) error {
	normuren, factoren, err := repository.LoadSeedCatalog(seedPath)
	if err != nil {
		return err
	}
	return s.repo.SeedSystemCatalog(ctx, normuren, factoren)
}
