// Package service implements authentication: registration, login and token
// refresh with bcrypt password hashing and HMAC-signed JWTs.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"groenportaal_backend/internal/auth/transport"
	"groenportaal_backend/platform/apperr"
	"groenportaal_backend/platform/config"
	"groenportaal_backend/platform/logger"
	"groenportaal_backend/platform/phone"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Repository defines the persistence operations the auth service needs.
type Repository interface {
	CreateBedrijfMetEigenaar(ctx context.Context, bedrijf transport.Bedrijf, user transport.User) (transport.Bedrijf, transport.User, error)
	UserByEmail(ctx context.Context, email string) (transport.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (transport.User, error)
	BedrijfByID(ctx context.Context, id uuid.UUID) (transport.Bedrijf, error)
	UpdateBedrijf(ctx context.Context, id uuid.UUID, b transport.Bedrijf) (transport.Bedrijf, error)
}

// Service handles authentication and token issuing.
type Service struct {
	repo   Repository
	config config.AuthServiceConfig
	logger *logger.Logger
}

// New creates a new auth service
func New(repo Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, config: cfg, logger: log}
}

// Register creates a bedrijf with its eigenaar account and issues tokens.
func (s *Service) Register(ctx context.Context, req transport.RegisterRequest) (transport.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Wachtwoord), bcrypt.DefaultCost)
	if err != nil {
		return transport.AuthResponse{}, fmt.Errorf("hash wachtwoord: %w", err)
	}

	bedrijf := transport.Bedrijf{
		Naam:     strings.TrimSpace(req.BedrijfNaam),
		Email:    normaliseerEmail(req.Email),
		Telefoon: phone.NormalizeE164(req.Telefoon),
	}
	user := transport.User{
		Email:        normaliseerEmail(req.Email),
		Naam:         strings.TrimSpace(req.Naam),
		Roles:        []string{transport.RolEigenaar},
		PasswordHash: string(hash),
	}

	bedrijf, user, err = s.repo.CreateBedrijfMetEigenaar(ctx, bedrijf, user)
	if err != nil {
		return transport.AuthResponse{}, err
	}

	s.logger.AuthEvent("register", user.Email, true, "")
	return s.authResponse(user, bedrijf)
}

// Login verifies credentials and issues a token pair. Invalid email and
// invalid password produce the same error to avoid account enumeration.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.AuthResponse, error) {
	user, err := s.repo.UserByEmail(ctx, normaliseerEmail(req.Email))
	if err != nil {
		s.logger.AuthEvent("login", req.Email, false, "unknown account")
		return transport.AuthResponse{}, apperr.Unauthorized("ongeldige inloggegevens")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Wachtwoord)); err != nil {
		s.logger.AuthEvent("login", user.Email, false, "wrong password")
		return transport.AuthResponse{}, apperr.Unauthorized("ongeldige inloggegevens")
	}

	bedrijf, err := s.repo.BedrijfByID(ctx, user.BedrijfID)
	if err != nil {
		return transport.AuthResponse{}, err
	}

	s.logger.AuthEvent("login", user.Email, true, "")
	return s.authResponse(user, bedrijf)
}

// Refresh validates a refresh token and issues a fresh pair. The account is
// re-read so role changes take effect on rotation.
func (s *Service) Refresh(ctx context.Context, req transport.RefreshRequest) (transport.AuthResponse, error) {
	userID, err := s.parseRefreshToken(req.RefreshToken)
	if err != nil {
		return transport.AuthResponse{}, apperr.Unauthorized("ongeldig refresh token")
	}

	user, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return transport.AuthResponse{}, apperr.Unauthorized("ongeldig refresh token")
	}
	bedrijf, err := s.repo.BedrijfByID(ctx, user.BedrijfID)
	if err != nil {
		return transport.AuthResponse{}, err
	}

	return s.authResponse(user, bedrijf)
}

// Me returns the current account with its bedrijf.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (transport.User, transport.Bedrijf, error) {
	user, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return transport.User{}, transport.Bedrijf{}, err
	}
	bedrijf, err := s.repo.BedrijfByID(ctx, user.BedrijfID)
	if err != nil {
		return transport.User{}, transport.Bedrijf{}, err
	}
	return user, bedrijf, nil
}

// UpdateBedrijf replaces the bedrijfsprofiel. Only eigenaren reach this
// path; the handler enforces the role. The IBAN is stored normalized so
// the betaal-QR payload can use it verbatim.
func (s *Service) UpdateBedrijf(ctx context.Context, bedrijfID uuid.UUID, req transport.UpdateBedrijfRequest) (transport.Bedrijf, error) {
	huidig, err := s.repo.BedrijfByID(ctx, bedrijfID)
	if err != nil {
		return transport.Bedrijf{}, err
	}

	huidig.Naam = strings.TrimSpace(req.Naam)
	huidig.Telefoon = phone.NormalizeE164(req.Telefoon)
	huidig.KvkNummer = strings.TrimSpace(req.KvkNummer)
	huidig.BTWNummer = strings.TrimSpace(req.BTWNummer)
	huidig.IBAN = normaliseerIBAN(req.IBAN)
	huidig.Adres = strings.TrimSpace(req.Adres)

	return s.repo.UpdateBedrijf(ctx, bedrijfID, huidig)
}

func normaliseerIBAN(iban string) string {
	return strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
}

func (s *Service) authResponse(user transport.User, bedrijf transport.Bedrijf) (transport.AuthResponse, error) {
	tokens, err := s.issueTokens(user)
	if err != nil {
		return transport.AuthResponse{}, err
	}
	return transport.AuthResponse{User: user, Bedrijf: bedrijf, Tokens: tokens}, nil
}

func (s *Service) issueTokens(user transport.User) (transport.TokenPair, error) {
	now := time.Now()
	accessTTL := s.config.GetAccessTokenTTL()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       user.ID.String(),
		"tenant_id": user.BedrijfID.String(),
		"roles":     user.Roles,
		"type":      "access",
		"iat":       now.Unix(),
		"exp":       now.Add(accessTTL).Unix(),
	})
	accessToken, err := access.SignedString([]byte(s.config.GetJWTAccessSecret()))
	if err != nil {
		return transport.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"type": "refresh",
		"iat":  now.Unix(),
		"exp":  now.Add(s.config.GetRefreshTokenTTL()).Unix(),
	})
	refreshToken, err := refresh.SignedString([]byte(s.config.GetJWTRefreshSecret()))
	if err != nil {
		return transport.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return transport.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(accessTTL.Seconds()),
	}, nil
}

func (s *Service) parseRefreshToken(rawToken string) (uuid.UUID, error) {
	parsed, err := jwt.Parse(rawToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.GetJWTRefreshSecret()), nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, fmt.Errorf("parse refresh token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid claims")
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return uuid.Nil, fmt.Errorf("not a refresh token")
	}

	sub, _ := claims["sub"].(string)
	return uuid.Parse(sub)
}

func normaliseerEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
