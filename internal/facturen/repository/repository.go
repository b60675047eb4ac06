// Package repository implements Postgres persistence for facturen.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"groenportaal_backend/internal/facturen/transport"
	"groenportaal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides access to factuur storage.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new facturen repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// NextFactuurNummer atomically claims the next sequence number for the
// tenant and year, mirroring the offerte counter.
func (r *Repository) NextFactuurNummer(ctx context.Context, bedrijfID uuid.UUID, jaar int) (string, error) {
	var nummer int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO factuur_counters (bedrijf_id, jaar, laatste_nummer)
		VALUES ($1, $2, 1)
		ON CONFLICT (bedrijf_id, jaar)
		DO UPDATE SET laatste_nummer = factuur_counters.laatste_nummer + 1
		RETURNING laatste_nummer`,
		bedrijfID, jaar,
	).Scan(&nummer)
	if err != nil {
		return "", fmt.Errorf("claim factuurnummer: %w", err)
	}
	return fmt.Sprintf("FAC-%d-%04d", jaar, nummer), nil
}

// Create inserts a new factuur.
func (r *Repository) Create(ctx context.Context, f transport.Factuur) (transport.Factuur, error) {
	regels, err := json.Marshal(f.Regels)
	if err != nil {
		return transport.Factuur{}, fmt.Errorf("marshal regels: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO facturen (
			bedrijf_id, project_id, nummer, status, klant_naam, klant_email,
			regels, subtotaal_cents, btw_cents, totaal_cents, vervaldatum
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at, updated_at`,
		f.BedrijfID, f.ProjectID, f.Nummer, f.Status, f.KlantNaam, f.KlantEmail,
		regels, f.Totalen.SubtotaalCents, f.Totalen.BTWCents, f.Totalen.TotaalCents,
		f.Vervaldatum,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return transport.Factuur{}, fmt.Errorf("insert factuur: %w", err)
	}
	return f, nil
}

// ByID fetches one factuur scoped to the tenant.
func (r *Repository) ByID(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Factuur, error) {
	row := r.pool.QueryRow(ctx, selectFactuur+` WHERE id = $1 AND bedrijf_id = $2`, id, bedrijfID)
	f, err := scanFactuur(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return transport.Factuur{}, apperr.NotFound("factuur niet gevonden")
	}
	if err != nil {
		return transport.Factuur{}, fmt.Errorf("query factuur: %w", err)
	}
	return f, nil
}

// List returns facturen for a tenant, newest first.
func (r *Repository) List(ctx context.Context, bedrijfID uuid.UUID, filter transport.ListFilter) ([]transport.Factuur, error) {
	query := selectFactuur + ` WHERE bedrijf_id = $1`
	args := []any{bedrijfID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query facturen: %w", err)
	}
	defer rows.Close()

	facturen := make([]transport.Factuur, 0)
	for rows.Next() {
		f, err := scanFactuur(rows)
		if err != nil {
			return nil, fmt.Errorf("scan factuur: %w", err)
		}
		facturen = append(facturen, f)
	}
	return facturen, rows.Err()
}

// UpdateStatus performs a guarded status change, analogous to offertes.
func (r *Repository) UpdateStatus(ctx context.Context, bedrijfID, id uuid.UUID, van, naar transport.FactuurStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE facturen SET status = $4, updated_at = now()
		WHERE id = $1 AND bedrijf_id = $2 AND status = $3`,
		id, bedrijfID, van, naar,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("factuur is inmiddels van status veranderd")
	}
	return nil
}

// SetVervaldatum stores the due date when the invoice is sent.
func (r *Repository) SetVervaldatum(ctx context.Context, bedrijfID, id uuid.UUID, f transport.Factuur) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE facturen SET vervaldatum = $3, updated_at = now()
		WHERE id = $1 AND bedrijf_id = $2`,
		id, bedrijfID, f.Vervaldatum,
	)
	if err != nil {
		return fmt.Errorf("update vervaldatum: %w", err)
	}
	return nil
}

const selectFactuur = `
	SELECT id, bedrijf_id, project_id, nummer, status, klant_naam, klant_email,
	       regels, subtotaal_cents, btw_cents, totaal_cents, vervaldatum,
	       created_at, updated_at
	FROM facturen`

func scanFactuur(row pgx.Row) (transport.Factuur, error) {
	var (
		f         transport.Factuur
		regelsRaw []byte
	)
	err := row.Scan(
		&f.ID, &f.BedrijfID, &f.ProjectID, &f.Nummer, &f.Status, &f.KlantNaam, &f.KlantEmail,
		&regelsRaw, &f.Totalen.SubtotaalCents, &f.Totalen.BTWCents, &f.Totalen.TotaalCents,
		&f.Vervaldatum, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return transport.Factuur{}, err
	}
	if err := json.Unmarshal(regelsRaw, &f.Regels); err != nil {
		return transport.Factuur{}, fmt.Errorf("unmarshal regels: %w", err)
	}
	return f, nil
}
