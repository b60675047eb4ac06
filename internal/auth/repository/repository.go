// Package repository implements Postgres persistence for accounts and bedrijven.
package repository

import (
	"context"
	"errors"
	"fmt"

	"groenportaal_backend/internal/auth/transport"
	"groenportaal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides access to user and bedrijf storage.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new auth repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateBedrijfMetEigenaar creates the tenant and its first account in one
// transaction. The email unique constraint maps to a conflict error.
func (r *Repository) CreateBedrijfMetEigenaar(ctx context.Context, bedrijf transport.Bedrijf, user transport.User) (transport.Bedrijf, transport.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return transport.Bedrijf{}, transport.User{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO bedrijven (naam, email, telefoon)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		bedrijf.Naam, bedrijf.Email, bedrijf.Telefoon,
	).Scan(&bedrijf.ID, &bedrijf.CreatedAt)
	if err != nil {
		return transport.Bedrijf{}, transport.User{}, mapUniekeEmail(err)
	}

	user.BedrijfID = bedrijf.ID
	err = tx.QueryRow(ctx, `
		INSERT INTO users (bedrijf_id, email, naam, roles, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		user.BedrijfID, user.Email, user.Naam, user.Roles, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return transport.Bedrijf{}, transport.User{}, mapUniekeEmail(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return transport.Bedrijf{}, transport.User{}, fmt.Errorf("commit tx: %w", err)
	}
	return bedrijf, user, nil
}

// UserByEmail fetches an account by email, including the password hash.
func (r *Repository) UserByEmail(ctx context.Context, email string) (transport.User, error) {
	var u transport.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, bedrijf_id, email, naam, roles, password_hash, created_at
		FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.BedrijfID, &u.Email, &u.Naam, &u.Roles, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return transport.User{}, apperr.NotFound("account niet gevonden")
	}
	if err != nil {
		return transport.User{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

// UserByID fetches an account by its ID.
func (r *Repository) UserByID(ctx context.Context, id uuid.UUID) (transport.User, error) {
	var u transport.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, bedrijf_id, email, naam, roles, password_hash, created_at
		FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.BedrijfID, &u.Email, &u.Naam, &u.Roles, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return transport.User{}, apperr.NotFound("account niet gevonden")
	}
	if err != nil {
		return transport.User{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

// BedrijfByID fetches the tenant record.
func (r *Repository) BedrijfByID(ctx context.Context, id uuid.UUID) (transport.Bedrijf, error) {
	var b transport.Bedrijf
	err := r.pool.QueryRow(ctx, `
		SELECT id, naam, email, COALESCE(telefoon, ''), COALESCE(kvk_nummer, ''),
		       COALESCE(btw_nummer, ''), COALESCE(iban, ''), COALESCE(adres, ''), created_at
		FROM bedrijven WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.Naam, &b.Email, &b.Telefoon, &b.KvkNummer, &b.BTWNummer, &b.IBAN, &b.Adres, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return transport.Bedrijf{}, apperr.NotFound("bedrijf niet gevonden")
	}
	if err != nil {
		return transport.Bedrijf{}, fmt.Errorf("query bedrijf: %w", err)
	}
	return b, nil
}

// UpdateBedrijf replaces the editable profile fields of a bedrijf.
func (r *Repository) UpdateBedrijf(ctx context.Context, id uuid.UUID, b transport.Bedrijf) (transport.Bedrijf, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bedrijven SET
			naam = $2, telefoon = NULLIF($3, ''), kvk_nummer = NULLIF($4, ''),
			btw_nummer = NULLIF($5, ''), iban = NULLIF($6, ''), adres = NULLIF($7, '')
		WHERE id = $1`,
		id, b.Naam, b.Telefoon, b.KvkNummer, b.BTWNummer, b.IBAN, b.Adres,
	)
	if err != nil {
		return transport.Bedrijf{}, fmt.Errorf("update bedrijf: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return transport.Bedrijf{}, apperr.NotFound("bedrijf niet gevonden")
	}
	return r.BedrijfByID(ctx, id)
}

func mapUniekeEmail(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.Conflict("e-mailadres is al in gebruik")
	}
	return fmt.Errorf("insert: %w", err)
}
