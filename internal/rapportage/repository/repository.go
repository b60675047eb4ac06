// Package repository implements the read-only aggregate queries behind the
// rapportage dashboards.
package repository

import (
	"context"
	"fmt"
	"time"

	"groenportaal_backend/internal/rapportage/transport"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs aggregate queries over the other modules' tables.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new rapportage repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// UrenPerMaand sums logged hours per calendar month since the given date.
func (r *Repository) UrenPerMaand(ctx context.Context, bedrijfID uuid.UUID, vanaf time.Time) ([]transport.MaandTotaal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(date_trunc('month', datum), 'YYYY-MM') AS maand, SUM(uren)
		FROM urenregistraties
		WHERE bedrijf_id = $1 AND datum >= $2
		GROUP BY 1
		ORDER BY 1`,
		bedrijfID, vanaf,
	)
	if err != nil {
		return nil, fmt.Errorf("query uren per maand: %w", err)
	}
	defer rows.Close()

	totalen := make([]transport.MaandTotaal, 0)
	for rows.Next() {
		var t transport.MaandTotaal
		if err := rows.Scan(&t.Maand, &t.Waarde); err != nil {
			return nil, fmt.Errorf("scan uren per maand: %w", err)
		}
		totalen = append(totalen, t)
	}
	return totalen, rows.Err()
}

// OmzetPerMaand sums sent and paid invoice totals per calendar month.
func (r *Repository) OmzetPerMaand(ctx context.Context, bedrijfID uuid.UUID, vanaf time.Time) ([]transport.MaandBedrag, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS maand, SUM(totaal_cents)
		FROM facturen
		WHERE bedrijf_id = $1 AND created_at >= $2 AND status IN ('verzonden', 'betaald')
		GROUP BY 1
		ORDER BY 1`,
		bedrijfID, vanaf,
	)
	if err != nil {
		return nil, fmt.Errorf("query omzet per maand: %w", err)
	}
	defer rows.Close()

	bedragen := make([]transport.MaandBedrag, 0)
	for rows.Next() {
		var b transport.MaandBedrag
		if err := rows.Scan(&b.Maand, &b.Cents); err != nil {
			return nil, fmt.Errorf("scan omzet per maand: %w", err)
		}
		bedragen = append(bedragen, b)
	}
	return bedragen, rows.Err()
}

// AfgerondPerMaand counts completed projects per calendar month of their
// end date.
func (r *Repository) AfgerondPerMaand(ctx context.Context, bedrijfID uuid.UUID, vanaf time.Time) ([]transport.MaandTotaal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(date_trunc('month', eind_datum), 'YYYY-MM') AS maand, COUNT(*)
		FROM projecten
		WHERE bedrijf_id = $1 AND status = 'afgerond' AND eind_datum >= $2
		GROUP BY 1
		ORDER BY 1`,
		bedrijfID, vanaf,
	)
	if err != nil {
		return nil, fmt.Errorf("query afgerond per maand: %w", err)
	}
	defer rows.Close()

	totalen := make([]transport.MaandTotaal, 0)
	for rows.Next() {
		var t transport.MaandTotaal
		if err := rows.Scan(&t.Maand, &t.Waarde); err != nil {
			return nil, fmt.Errorf("scan afgerond per maand: %w", err)
		}
		totalen = append(totalen, t)
	}
	return totalen, rows.Err()
}

// Afwijkingen reads the deviation percentage and status from every stored
// nacalculatie snapshot.
func (r *Repository) Afwijkingen(ctx context.Context, bedrijfID uuid.UUID) ([]int, map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT (nacalculatie->>'afwijkingPercentage')::int, nacalculatie->>'status'
		FROM projecten
		WHERE bedrijf_id = $1 AND nacalculatie IS NOT NULL`,
		bedrijfID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("query afwijkingen: %w", err)
	}
	defer rows.Close()

	afwijkingen := make([]int, 0)
	perStatus := make(map[string]int)
	for rows.Next() {
		var pct int
		var status string
		if err := rows.Scan(&pct, &status); err != nil {
			return nil, nil, fmt.Errorf("scan afwijking: %w", err)
		}
		afwijkingen = append(afwijkingen, pct)
		perStatus[status]++
	}
	return afwijkingen, perStatus, rows.Err()
}
