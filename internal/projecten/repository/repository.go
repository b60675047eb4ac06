// Package repository implements Postgres persistence for projecten, hour
// logs, machine usage and photo metadata. Hour and machine entries are
// append-only: there are no update or delete statements for them.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	calctransport "groenportaal_backend/internal/calculatie/transport"
	"groenportaal_backend/internal/projecten/transport"
	"groenportaal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides access to project storage.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new projecten repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new project.
func (r *Repository) Create(ctx context.Context, p transport.Project) (transport.Project, error) {
	scopes, regels, plan, nacalc, err := marshalJSONVelden(p)
	if err != nil {
		return transport.Project{}, err
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO projecten (
			bedrijf_id, offerte_id, naam, status, klant_naam, klant_email,
			scopes, regels, plan, nacalculatie, start_datum, eind_datum
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at, updated_at`,
		p.BedrijfID, p.OfferteID, p.Naam, p.Status, p.KlantNaam, p.KlantEmail,
		scopes, regels, plan, nacalc, p.StartDatum, p.EindDatum,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return transport.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

// Update replaces the mutable fields of a project.
func (r *Repository) Update(ctx context.Context, p transport.Project) (transport.Project, error) {
	scopes, regels, plan, nacalc, err := marshalJSONVelden(p)
	if err != nil {
		return transport.Project{}, err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE projecten SET
			naam = $3, status = $4, scopes = $5, regels = $6, plan = $7,
			nacalculatie = $8, start_datum = $9, eind_datum = $10,
			updated_at = now()
		WHERE id = $1 AND bedrijf_id = $2`,
		p.ID, p.BedrijfID, p.Naam, p.Status, scopes, regels, plan, nacalc,
		p.StartDatum, p.EindDatum,
	)
	if err != nil {
		return transport.Project{}, fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return transport.Project{}, apperr.NotFound("project niet gevonden")
	}
	return r.ByID(ctx, p.BedrijfID, p.ID)
}

// ByID fetches one project scoped to the tenant.
func (r *Repository) ByID(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Project, error) {
	row := r.pool.QueryRow(ctx, selectProject+` WHERE id = $1 AND bedrijf_id = $2`, id, bedrijfID)
	p, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return transport.Project{}, apperr.NotFound("project niet gevonden")
	}
	if err != nil {
		return transport.Project{}, fmt.Errorf("query project: %w", err)
	}
	return p, nil
}

// List returns projects for a tenant, newest first.
func (r *Repository) List(ctx context.Context, bedrijfID uuid.UUID, filter transport.ListFilter) ([]transport.Project, error) {
	query := selectProject + ` WHERE bedrijf_id = $1`
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
		return nil, fmt.Errorf("query projecten: %w", err)
	}
	defer rows.Close()

	projecten := make([]transport.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projecten = append(projecten, p)
	}
	return projecten, rows.Err()
}

// AddUren appends one hour log entry.
func (r *Repository) AddUren(ctx context.Context, bedrijfID, projectID uuid.UUID, u calctransport.Urenregistratie) (calctransport.Urenregistratie, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO urenregistraties (bedrijf_id, project_id, datum, medewerker, uren, scope, notitie)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
		RETURNING id`,
		bedrijfID, projectID, u.Datum, u.Medewerker, u.Uren, string(u.Scope), u.Notitie,
	).Scan(&u.ID)
	if err != nil {
		return calctransport.Urenregistratie{}, fmt.Errorf("insert urenregistratie: %w", err)
	}
	return u, nil
}

// UrenVoorProject returns every hour log entry, oldest first.
func (r *Repository) UrenVoorProject(ctx context.Context, bedrijfID, projectID uuid.UUID) ([]calctransport.Urenregistratie, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, datum, medewerker, uren, COALESCE(scope, ''), COALESCE(notitie, '')
		FROM urenregistraties
		WHERE bedrijf_id = $1 AND project_id = $2
		ORDER BY datum, id`,
		bedrijfID, projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("query urenregistraties: %w", err)
	}
	defer rows.Close()

	entries := make([]calctransport.Urenregistratie, 0)
	for rows.Next() {
		var u calctransport.Urenregistratie
		var scope string
		if err := rows.Scan(&u.ID, &u.Datum, &u.Medewerker, &u.Uren, &scope, &u.Notitie); err != nil {
			return nil, fmt.Errorf("scan urenregistratie: %w", err)
		}
		u.Scope = calctransport.Scope(scope)
		entries = append(entries, u)
	}
	return entries, rows.Err()
}

// AddMachine appends one machine usage entry.
func (r *Repository) AddMachine(ctx context.Context, bedrijfID, projectID uuid.UUID, machine string, m calctransport.Machinegebruik) (calctransport.Machinegebruik, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO machinegebruik (bedrijf_id, project_id, datum, machine, uren, kosten_cents, scope)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		RETURNING id`,
		bedrijfID, projectID, m.Datum, machine, m.Uren, m.KostenCents, string(m.Scope),
	).Scan(&m.ID)
	if err != nil {
		return calctransport.Machinegebruik{}, fmt.Errorf("insert machinegebruik: %w", err)
	}
	return m, nil
}

// MachinesVoorProject returns every machine usage entry, oldest first.
func (r *Repository) MachinesVoorProject(ctx context.Context, bedrijfID, projectID uuid.UUID) ([]calctransport.Machinegebruik, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, datum, uren, kosten_cents, COALESCE(scope, '')
		FROM machinegebruik
		WHERE bedrijf_id = $1 AND project_id = $2
		ORDER BY datum, id`,
		bedrijfID, projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("query machinegebruik: %w", err)
	}
	defer rows.Close()

	entries := make([]calctransport.Machinegebruik, 0)
	for rows.Next() {
		var m calctransport.Machinegebruik
		var scope string
		if err := rows.Scan(&m.ID, &m.Datum, &m.Uren, &m.KostenCents, &scope); err != nil {
			return nil, fmt.Errorf("scan machinegebruik: %w", err)
		}
		m.Scope = calctransport.Scope(scope)
		entries = append(entries, m)
	}
	return entries, rows.Err()
}

// AddFoto stores photo metadata.
func (r *Repository) AddFoto(ctx context.Context, bedrijfID uuid.UUID, f transport.Foto) (transport.Foto, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO project_fotos (bedrijf_id, project_id, object_key, bestand, notitie)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING id, created_at`,
		bedrijfID, f.ProjectID, f.ObjectKey, f.Bestand, f.Notitie,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return transport.Foto{}, fmt.Errorf("insert foto: %w", err)
	}
	return f, nil
}

// FotosVoorProject returns photo metadata for a project, newest first.
func (r *Repository) FotosVoorProject(ctx context.Context, bedrijfID, projectID uuid.UUID) ([]transport.Foto, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, project_id, object_key, bestand, COALESCE(notitie, ''), created_at
		FROM project_fotos
		WHERE bedrijf_id = $1 AND project_id = $2
		ORDER BY created_at DESC`,
		bedrijfID, projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("query fotos: %w", err)
	}
	defer rows.Close()

	fotos := make([]transport.Foto, 0)
	for rows.Next() {
		var f transport.Foto
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.ObjectKey, &f.Bestand, &f.Notitie, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan foto: %w", err)
		}
		fotos = append(fotos, f)
	}
	return fotos, rows.Err()
}

// AfgerondeProjectenZonderNacalculatie lists completed projects that have no
// stored variance snapshot yet. Used by the scheduler's snapshot task.
func (r *Repository) AfgerondeProjectenZonderNacalculatie(ctx context.Context, sinds time.Time) ([]transport.Project, error) {
	rows, err := r.pool.Query(ctx,
		selectProject+` WHERE status = $1 AND nacalculatie IS NULL AND updated_at >= $2`,
		transport.StatusAfgerond, sinds,
	)
	if err != nil {
		return nil, fmt.Errorf("query afgeronde projecten: %w", err)
	}
	defer rows.Close()

	projecten := make([]transport.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projecten = append(projecten, p)
	}
	return projecten, rows.Err()
}

const selectProject = `
	SELECT id, bedrijf_id, offerte_id, naam, status, klant_naam, klant_email,
	       scopes, regels, plan, nacalculatie, start_datum, eind_datum,
	       created_at, updated_at
	FROM projecten`

func scanProject(row pgx.Row) (transport.Project, error) {
	var (
		p                    transport.Project
		scopesRaw, regelsRaw []byte
		planRaw, nacalcRaw   []byte
	)
	err := row.Scan(
		&p.ID, &p.BedrijfID, &p.OfferteID, &p.Naam, &p.Status, &p.KlantNaam, &p.KlantEmail,
		&scopesRaw, &regelsRaw, &planRaw, &nacalcRaw, &p.StartDatum, &p.EindDatum,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return transport.Project{}, err
	}

	if err := json.Unmarshal(scopesRaw, &p.Scopes); err != nil {
		return transport.Project{}, fmt.Errorf("unmarshal scopes: %w", err)
	}
	if err := json.Unmarshal(regelsRaw, &p.Regels); err != nil {
		return transport.Project{}, fmt.Errorf("unmarshal regels: %w", err)
	}
	if len(planRaw) > 0 {
		if err := json.Unmarshal(planRaw, &p.Plan); err != nil {
			return transport.Project{}, fmt.Errorf("unmarshal plan: %w", err)
		}
	}
	if len(nacalcRaw) > 0 {
		if err := json.Unmarshal(nacalcRaw, &p.Nacalculatie); err != nil {
			return transport.Project{}, fmt.Errorf("unmarshal nacalculatie: %w", err)
		}
	}
	return p, nil
}

func marshalJSONVelden(p transport.Project) (scopes, regels, plan, nacalc []byte, err error) {
	if scopes, err = json.Marshal(p.Scopes); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal scopes: %w", err)
	}
	if regels, err = json.Marshal(p.Regels); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal regels: %w", err)
	}
	if p.Plan != nil {
		if plan, err = json.Marshal(p.Plan); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("marshal plan: %w", err)
		}
	}
	if p.Nacalculatie != nil {
		if nacalc, err = json.Marshal(p.Nacalculatie); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("marshal nacalculatie: %w", err)
		}
	}
	return scopes, regels, plan, nacalc, nil
}
