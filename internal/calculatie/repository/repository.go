package repository

import (
	"context"
	"errors"
	"fmt"

	"groenportaal_backend/internal/calculatie/transport"
	"groenportaal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides database operations for the normuren and
// correctiefactoren catalogs. System defaults have a NULL bedrijf_id; tenant
// overrides shadow the system row with the same key.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new calculatie repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListNormuren returns the effective rate catalog for a tenant: overrides
// first, system defaults for every key the tenant did not override.
func (r *Repository) ListNormuren(ctx context.Context, tenantID uuid.UUID) ([]transport.Normuur, error) {
	query := `
		SELECT DISTINCT ON (scope, activiteit_key)
			id, scope, activiteit_key, activiteit, eenheid, normuur_per_eenheid
		FROM normuren
		WHERE bedrijf_id = $1 OR bedrijf_id IS NULL
		ORDER BY scope, activiteit_key, bedrijf_id NULLS LAST`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list normuren: %w", err)
	}
	defer rows.Close()

	normuren := make([]transport.Normuur, 0)
	for rows.Next() {
		var n transport.Normuur
		if err := rows.Scan(&n.ID, &n.Scope, &n.ActiviteitKey, &n.Activiteit, &n.Eenheid, &n.NormuurPerEenheid); err != nil {
			return nil, fmt.Errorf("scan normuur: %w", err)
		}
		normuren = append(normuren, n)
	}
	return normuren, rows.Err()
}

// UpsertNormuurOverride creates or replaces a tenant override for a unit rate.
func (r *Repository) UpsertNormuurOverride(ctx context.Context, tenantID uuid.UUID, n transport.Normuur) (transport.Normuur, error) {
	query := `
		INSERT INTO normuren (id, bedrijf_id, scope, activiteit_key, activiteit, eenheid, normuur_per_eenheid)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (bedrijf_id, scope, activiteit_key) WHERE bedrijf_id IS NOT NULL
		DO UPDATE SET activiteit = EXCLUDED.activiteit,
			eenheid = EXCLUDED.eenheid,
			normuur_per_eenheid = EXCLUDED.normuur_per_eenheid,
			updated_at = now()
		RETURNING id`

	id := uuid.New()
	if err := r.pool.QueryRow(ctx, query, id, tenantID, n.Scope, n.ActiviteitKey, n.Activiteit, n.Eenheid, n.NormuurPerEenheid).Scan(&n.ID); err != nil {
		return transport.Normuur{}, fmt.Errorf("upsert normuur: %w", err)
	}
	return n, nil
}

// DeleteNormuurOverride removes a tenant override, restoring the system default.
func (r *Repository) DeleteNormuurOverride(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM normuren WHERE id = $1 AND bedrijf_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete normuur: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("normuur niet gevonden")
	}
	return nil
}

// ListCorrectiefactoren returns the effective factor catalog for a tenant.
func (r *Repository) ListCorrectiefactoren(ctx context.Context, tenantID uuid.UUID) ([]transport.Correctiefactor, error) {
	query := `
		SELECT DISTINCT ON (type, waarde)
			id, type, waarde, factor
		FROM correctiefactoren
		WHERE bedrijf_id = $1 OR bedrijf_id IS NULL
		ORDER BY type, waarde, bedrijf_id NULLS LAST`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list correctiefactoren: %w", err)
	}
	defer rows.Close()

	factoren := make([]transport.Correctiefactor, 0)
	for rows.Next() {
		var f transport.Correctiefactor
		if err := rows.Scan(&f.ID, &f.Type, &f.Waarde, &f.Factor); err != nil {
			return nil, fmt.Errorf("scan correctiefactor: %w", err)
		}
		factoren = append(factoren, f)
	}
	return factoren, rows.Err()
}

// UpsertCorrectiefactorOverride creates or replaces a tenant override for a factor.
func (r *Repository) UpsertCorrectiefactorOverride(ctx context.Context, tenantID uuid.UUID, f transport.Correctiefactor) (transport.Correctiefactor, error) {
	query := `
		INSERT INTO correctiefactoren (id, bedrijf_id, type, waarde, factor)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (bedrijf_id, type, waarde) WHERE bedrijf_id IS NOT NULL
		DO UPDATE SET factor = EXCLUDED.factor, updated_at = now()
		RETURNING id`

	id := uuid.New()
	if err := r.pool.QueryRow(ctx, query, id, tenantID, f.Type, f.Waarde, f.Factor).Scan(&f.ID); err != nil {
		return transport.Correctiefactor{}, fmt.Errorf("upsert correctiefactor: %w", err)
	}
	return f, nil
}

// DeleteCorrectiefactorOverride removes a tenant override.
func (r *Repository) DeleteCorrectiefactorOverride(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM correctiefactoren WHERE id = $1 AND bedrijf_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete correctiefactor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("correctiefactor niet gevonden")
	}
	return nil
}

// SeedSystemCatalog inserts system-default rows for every entry that does not
// exist yet. Existing defaults are left untouched so manual tuning survives
// restarts.
func (r *Repository) SeedSystemCatalog(ctx context.Context, normuren []transport.Normuur, factoren []transport.Correctiefactor) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, n := range normuren {
		_, err := tx.Exec(ctx, `
			INSERT INTO normuren (id, bedrijf_id, scope, activiteit_key, activiteit, eenheid, normuur_per_eenheid)
			VALUES ($1, NULL, $2, $3, $4, $5, $6)
			ON CONFLICT (scope, activiteit_key) WHERE bedrijf_id IS NULL DO NOTHING`,
			uuid.New(), n.Scope, n.ActiviteitKey, n.Activiteit, n.Eenheid, n.NormuurPerEenheid)
		if err != nil {
			return fmt.Errorf("seed normuur %s/%s: %w", n.Scope, n.ActiviteitKey, err)
		}
	}

	for _, f := range factoren {
		_, err := tx.Exec(ctx, `
			INSERT INTO correctiefactoren (id, bedrijf_id, type, waarde, factor)
			VALUES ($1, NULL, $2, $3, $4)
			ON CONFLICT (type, waarde) WHERE bedrijf_id IS NULL DO NOTHING`,
			uuid.New(), f.Type, f.Waarde, f.Factor)
		if err != nil {
			return fmt.Errorf("seed correctiefactor %s/%s: %w", f.Type, f.Waarde, err)
		}
	}

	return tx.Commit(ctx)
}

// IsNotFound reports whether the error is a pgx no-rows error.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
