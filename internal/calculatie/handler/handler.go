// Package handler contains the HTTP handlers for the calculatie module.
package handler

import (
	"context"
	"net/http"

	"groenportaal_backend/internal/calculatie/transport"
	"groenportaal_backend/platform/httpkit"
	"groenportaal_backend/platform/logger"
	"groenportaal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Service defines the calculatie operations the handler depends on.
type Service interface {
	Normuren(ctx context.Context, tenantID uuid.UUID) ([]transport.Normuur, error)
	SaveNormuur(ctx context.Context, tenantID uuid.UUID, req transport.NormuurRequest) (transport.Normuur, error)
	DeleteNormuur(ctx context.Context, tenantID, id uuid.UUID) error
	Correctiefactoren(ctx context.Context, tenantID uuid.UUID) ([]transport.Correctiefactor, error)
	SaveCorrectiefactor(ctx context.Context, tenantID uuid.UUID, req transport.CorrectiefactorRequest) (transport.Correctiefactor, error)
	DeleteCorrectiefactor(ctx context.Context, tenantID, id uuid.UUID) error
	Voorcalculatie(ctx context.Context, tenantID uuid.UUID, req transport.VoorcalculatieRequest) (transport.VoorcalculatieResponse, error)
}

// Handler handles calculatie HTTP requests: catalog management and
// standalone voorcalculatie previews.
type Handler struct {
	service   Service
	logger    *logger.Logger
	validator *validator.Validator
}

// New creates a new calculatie handler.
func New(service Service, log *logger.Logger, val *validator.Validator) *Handler {
	return &Handler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// ListNormuren returns the tenant's effective unit-rate catalog.
// GET /api/v1/calculatie/normuren
func (h *Handler) ListNormuren(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	normuren, err := h.service.Normuren(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"normuren": normuren})
}

// SaveNormuur stores a tenant override for a unit rate.
// POST /api/v1/calculatie/normuren
func (h *Handler) SaveNormuur(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	var req transport.NormuurRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "ongeldige aanvraag", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validatie mislukt", err.Error())
		return
	}

	normuur, err := h.service.SaveNormuur(c.Request.Context(), tenantID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, normuur)
}

// DeleteNormuur removes a tenant override for a unit rate.
// DELETE /api/v1/calculatie/normuren/:id
func (h *Handler) DeleteNormuur(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "ongeldig id", nil)
		return
	}

	if err := h.service.DeleteNormuur(c.Request.Context(), tenantID, id); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

// ListCorrectiefactoren returns the tenant's effective correction factors.
// GET /api/v1/calculatie/correctiefactoren
func (h *Handler) ListCorrectiefactoren(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	factoren, err := h.service.Correctiefactoren(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"correctiefactoren": factoren})
}

// SaveCorrectiefactor stores a tenant override for a correction factor.
// POST /api/v1/calculatie/correctiefactoren
func (h *Handler) SaveCorrectiefactor(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	var req transport.CorrectiefactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "ongeldige aanvraag", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validatie mislukt", err.Error())
		return
	}

	factor, err := h.service.SaveCorrectiefactor(c.Request.Context(), tenantID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, factor)
}

// DeleteCorrectiefactor removes a tenant override for a correction factor.
// DELETE /api/v1/calculatie/correctiefactoren/:id
func (h *Handler) DeleteCorrectiefactor(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "ongeldig id", nil)
		return
	}

	if err := h.service.DeleteCorrectiefactor(c.Request.Context(), tenantID, id); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

// Voorcalculatie runs the estimation engine over the posted scope data.
// The result is a preview: nothing is stored, the offertes module snapshots
// the result when a quote is saved.
// POST /api/v1/calculatie/voorcalculatie
func (h *Handler) Voorcalculatie(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	var req transport.VoorcalculatieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "ongeldige aanvraag", err.Error())
		return
	}

	for scope := range req.Scopes {
		if !scope.Geldig() {
			httpkit.Error(c, http.StatusBadRequest, "onbekende scope: "+string(scope), nil)
			return
		}
	}

	resp, err := h.service.Voorcalculatie(c.Request.Context(), tenantID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}
