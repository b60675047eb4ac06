// Package transport defines the auth module's request and response types.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// Known roles.
const (
	RolEigenaar   = "eigenaar"
	RolCalculator = "calculator"
	RolUitvoerder = "uitvoerder"
)

// User is a portal account scoped to one bedrijf.
type User struct {
	ID           uuid.UUID `json:"id"`
	BedrijfID    uuid.UUID `json:"bedrijfId"`
	Email        string    `json:"email"`
	Naam         string    `json:"naam"`
	Roles        []string  `json:"roles"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Bedrijf is the tenant: a landscaping company using the portal.
type Bedrijf struct {
	ID        uuid.UUID `json:"id"`
	Naam      string    `json:"naam"`
	Email     string    `json:"email"`
	Telefoon  string    `json:"telefoon,omitempty"`
	KvkNummer string    `json:"kvkNummer,omitempty"`
	BTWNummer string    `json:"btwNummer,omitempty"`
	IBAN      string    `json:"iban,omitempty"`
	Adres     string    `json:"adres,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterRequest registers a new bedrijf with its first (eigenaar) account.
type RegisterRequest struct {
	BedrijfNaam string `json:"bedrijfNaam" validate:"required,min=2,max=200"`
	Naam        string `json:"naam" validate:"required,min=2,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Telefoon    string `json:"telefoon,omitempty" validate:"omitempty,max=20"`
	Wachtwoord  string `json:"wachtwoord" validate:"required,min=12,max=128"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Wachtwoord string `json:"wachtwoord" validate:"required"`
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// UpdateBedrijfRequest updates the bedrijfsprofiel. The IBAN is needed
// before betaal-QR codes can be generated on facturen.
type UpdateBedrijfRequest struct {
	Naam      string `json:"naam" validate:"required,min=2,max=200"`
	Telefoon  string `json:"telefoon,omitempty" validate:"omitempty,max=20"`
	KvkNummer string `json:"kvkNummer,omitempty" validate:"omitempty,max=20"`
	BTWNummer string `json:"btwNummer,omitempty" validate:"omitempty,max=20"`
	IBAN      string `json:"iban,omitempty" validate:"omitempty,min=15,max=34"`
	Adres     string `json:"adres,omitempty" validate:"omitempty,max=500"`
}

// TokenPair is the issued credential set.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // access token lifetime in seconds
}

// AuthResponse is returned on register, login and refresh.
type AuthResponse struct {
	User    User      `json:"user"`
	Bedrijf Bedrijf   `json:"bedrijf"`
	Tokens  TokenPair `json:"tokens"`
}
