// Package repository implements Postgres persistence for offertes.
// Structured quote data (scopes, regels, snapshots) is stored as JSONB; the
// searchable header fields are columns.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"groenportaal_backend/internal/offertes/transport"
	"groenportaal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides access to offerte storage.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new offertes repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// NextOfferteNummer atomically claims the next sequence number for the tenant
// and year. The counter row is upserted so concurrent claims never collide
// and the sequence survives restarts.
func (r *Repository) NextOfferteNummer(ctx context.Context, bedrijfID uuid.UUID, jaar int) (string, error) {
	var nummer int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO offerte_counters (bedrijf_id, jaar, laatste_nummer)
		VALUES ($1, $2, 1)
		ON CONFLICT (bedrijf_id, jaar)
		DO UPDATE SET laatste_nummer = offerte_counters.laatste_nummer + 1
		RETURNING laatste_nummer`,
		bedrijfID, jaar,
	).Scan(&nummer)
	if err != nil {
		return "", fmt.Errorf("claim offertenummer: %w", err)
	}
	return fmt.Sprintf("OFF-%d-%04d", jaar, nummer), nil
}

// Create inserts a new offerte.
func (r *Repository) Create(ctx context.Context, o transport.Offerte) (transport.Offerte, error) {
	scopes, globaal, regels, voorcalc, err := marshalJSONVelden(o)
	if err != nil {
		return transport.Offerte{}, err
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO offertes (
			bedrijf_id, nummer, status, klant_naam, klant_email, klant_telefoon,
			klant_adres, omschrijving, scopes, globaal, regels, voorcalculatie,
			subtotaal_cents, btw_cents, totaal_cents, geldig_tot
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING id, created_at, updated_at`,
		o.BedrijfID, o.Nummer, o.Status, o.KlantNaam, o.KlantEmail, o.KlantTelefoon,
		o.KlantAdres, o.Omschrijving, scopes, globaal, regels, voorcalc,
		o.Totalen.SubtotaalCents, o.Totalen.BTWCents, o.Totalen.TotaalCents, o.GeldigTot,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return transport.Offerte{}, fmt.Errorf("insert offerte: %w", err)
	}
	return o, nil
}

// Update replaces the mutable fields of an offerte.
func (r *Repository) Update(ctx context.Context, o transport.Offerte) (transport.Offerte, error) {
	scopes, globaal, regels, voorcalc, err := marshalJSONVelden(o)
	if err != nil {
		return transport.Offerte{}, err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE offertes SET
			status = $3, klant_naam = $4, klant_email = $5, klant_telefoon = $6,
			klant_adres = $7, omschrijving = $8, scopes = $9, globaal = $10,
			regels = $11, voorcalculatie = $12, subtotaal_cents = $13,
			btw_cents = $14, totaal_cents = $15, geldig_tot = $16,
			updated_at = now()
		WHERE id = $1 AND bedrijf_id = $2`,
		o.ID, o.BedrijfID, o.Status, o.KlantNaam, o.KlantEmail, o.KlantTelefoon,
		o.KlantAdres, o.Omschrijving, scopes, globaal, regels, voorcalc,
		o.Totalen.SubtotaalCents, o.Totalen.BTWCents, o.Totalen.TotaalCents, o.GeldigTot,
	)
	if err != nil {
		return transport.Offerte{}, fmt.Errorf("update offerte: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return transport.Offerte{}, apperr.NotFound("offerte niet gevonden")
	}
	return r.ByID(ctx, o.BedrijfID, o.ID)
}

// ByID fetches one offerte scoped to the tenant.
func (r *Repository) ByID(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Offerte, error) {
	row := r.pool.QueryRow(ctx, selectOfferte+` WHERE id = $1 AND bedrijf_id = $2`, id, bedrijfID)
	o, err := scanOfferte(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return transport.Offerte{}, apperr.NotFound("offerte niet gevonden")
	}
	if err != nil {
		return transport.Offerte{}, fmt.Errorf("query offerte: %w", err)
	}
	return o, nil
}

// List returns offertes for a tenant, newest first.
func (r *Repository) List(ctx context.Context, bedrijfID uuid.UUID, filter transport.ListFilter) ([]transport.Offerte, error) {
	query := selectOfferte + ` WHERE bedrijf_id = $1`
	args := []any{bedrijfID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Zoek != "" {
		args = append(args, "%"+filter.Zoek+"%")
		query += fmt.Sprintf(" AND (klant_naam ILIKE $%d OR nummer ILIKE $%d)", len(args), len(args))
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
		return nil, fmt.Errorf("query offertes: %w", err)
	}
	defer rows.Close()

	offertes := make([]transport.Offerte, 0)
	for rows.Next() {
		o, err := scanOfferte(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offerte: %w", err)
		}
		offertes = append(offertes, o)
	}
	return offertes, rows.Err()
}

// VerlopenKandidaten returns sent quotes whose geldig-tot lies before the
// reference moment. Used by the expiry sweep.
func (r *Repository) VerlopenKandidaten(ctx context.Context, peildatum time.Time) ([]transport.Offerte, error) {
	rows, err := r.pool.Query(ctx,
		selectOfferte+` WHERE status = $1 AND geldig_tot IS NOT NULL AND geldig_tot < $2`,
		transport.StatusVerzonden, peildatum,
	)
	if err != nil {
		return nil, fmt.Errorf("query verlopen kandidaten: %w", err)
	}
	defer rows.Close()

	offertes := make([]transport.Offerte, 0)
	for rows.Next() {
		o, err := scanOfferte(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offerte: %w", err)
		}
		offertes = append(offertes, o)
	}
	return offertes, rows.Err()
}

// UpdateStatus performs a guarded status change: the row is only touched when
// it still has the expected current status, so concurrent transitions lose.
func (r *Repository) UpdateStatus(ctx context.Context, bedrijfID, id uuid.UUID, van, naar transport.OfferteStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE offertes SET status = $4, updated_at = now()
		WHERE id = $1 AND bedrijf_id = $2 AND status = $3`,
		id, bedrijfID, van, naar,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("offerte is inmiddels van status veranderd")
	}
	return nil
}

// Delete removes a concept offerte.
func (r *Repository) Delete(ctx context.Context, bedrijfID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM offertes WHERE id = $1 AND bedrijf_id = $2 AND status = $3`,
		id, bedrijfID, transport.StatusConcept,
	)
	if err != nil {
		return fmt.Errorf("delete offerte: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("concept offerte niet gevonden")
	}
	return nil
}

const selectOfferte = `
	SELECT id, bedrijf_id, nummer, status, klant_naam, klant_email,
	       COALESCE(klant_telefoon, ''), COALESCE(klant_adres, ''),
	       COALESCE(omschrijving, ''), scopes, globaal, regels, voorcalculatie,
	       subtotaal_cents, btw_cents, totaal_cents, geldig_tot,
	       created_at, updated_at
	FROM offertes`

func scanOfferte(row pgx.Row) (transport.Offerte, error) {
	var (
		o                                transport.Offerte
		scopesRaw, globaalRaw, regelsRaw []byte
		voorcalcRaw                      []byte
	)
	err := row.Scan(
		&o.ID, &o.BedrijfID, &o.Nummer, &o.Status, &o.KlantNaam, &o.KlantEmail,
		&o.KlantTelefoon, &o.KlantAdres, &o.Omschrijving,
		&scopesRaw, &globaalRaw, &regelsRaw, &voorcalcRaw,
		&o.Totalen.SubtotaalCents, &o.Totalen.BTWCents, &o.Totalen.TotaalCents,
		&o.GeldigTot, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return transport.Offerte{}, err
	}

	if err := json.Unmarshal(scopesRaw, &o.Scopes); err != nil {
		return transport.Offerte{}, fmt.Errorf("unmarshal scopes: %w", err)
	}
	if err := json.Unmarshal(globaalRaw, &o.Globaal); err != nil {
		return transport.Offerte{}, fmt.Errorf("unmarshal globaal: %w", err)
	}
	if err := json.Unmarshal(regelsRaw, &o.Regels); err != nil {
		return transport.Offerte{}, fmt.Errorf("unmarshal regels: %w", err)
	}
	if len(voorcalcRaw) > 0 {
		if err := json.Unmarshal(voorcalcRaw, &o.Voorcalculatie); err != nil {
			return transport.Offerte{}, fmt.Errorf("unmarshal voorcalculatie: %w", err)
		}
	}
	return o, nil
}

func marshalJSONVelden(o transport.Offerte) (scopes, globaal, regels, voorcalc []byte, err error) {
	if scopes, err = json.Marshal(o.Scopes); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal scopes: %w", err)
	}
	if globaal, err = json.Marshal(o.Globaal); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal globaal: %w", err)
	}
	if regels, err = json.Marshal(o.Regels); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal regels: %w", err)
	}
	if o.Voorcalculatie != nil {
		if voorcalc, err = json.Marshal(o.Voorcalculatie); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("marshal voorcalculatie: %w", err)
		}
	}
	return scopes, globaal, regels, voorcalc, nil
}
