// Package handler contains the HTTP handlers for authentication.
package handler

import (
	"context"
	"net/http"

	"groenportaal_backend/internal/auth/transport"
	"groenportaal_backend/platform/httpkit"
	"groenportaal_backend/platform/logger"
	"groenportaal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Service defines the auth operations the handler depends on.
type Service interface {
	Register(ctx context.Context, req transport.RegisterRequest) (transport.AuthResponse, error)
	Login(ctx context.Context, req transport.LoginRequest) (transport.AuthResponse, error)
	Refresh(ctx context.Context, req transport.RefreshRequest) (transport.AuthResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (transport.User, transport.Bedrijf, error)
	UpdateBedrijf(ctx context.Context, bedrijfID uuid.UUID, req transport.UpdateBedrijfRequest) (transport.Bedrijf, error)
}

// Handler handles authentication HTTP requests.
type Handler struct {
	service   Service
	logger    *logger.Logger
	validator *validator.Validator
}

// New creates a new auth handler.
func New(service Service, log *logger.Logger, val *validator.Validator) *Handler {
	return &Handler{service: service, logger: log, validator: val}
}

// Register creates a bedrijf with its first account.
// POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "ongeldige aanvraag", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validatie mislukt", err.Error())
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, resp)
}

// Login authenticates an account.
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "ongeldige aanvraag", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validatie mislukt", err.Error())
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}

// Refresh rotates a refresh token into a new token pair.
// POST /api/v1/auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	var req transport.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "ongeldige aanvraag", err.Error())
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}

// Me returns the authenticated account with its bedrijf.
// GET /api/v1/auth/me
func (h *Handler) Me(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	user, bedrijf, err := h.service.Me(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"user": user, "bedrijf": bedrijf})
}

// UpdateBedrijf replaces the bedrijfsprofiel. Eigenaar only.
// PUT /api/v1/auth/bedrijf
func (h *Handler) UpdateBedrijf(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	if !identity.HasRole(transport.RolEigenaar) {
		httpkit.Error(c, http.StatusForbidden, "alleen de eigenaar kan het bedrijfsprofiel wijzigen", "")
		return
	}

	var req transport.UpdateBedrijfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "ongeldige aanvraag", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validatie mislukt", err.Error())
		return
	}

	bedrijf, err := h.service.UpdateBedrijf(c.Request.Context(), identity.TenantID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, bedrijf)
}
