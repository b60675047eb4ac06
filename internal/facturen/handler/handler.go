// Package handler contains the HTTP handlers for facturen.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"groenportaal_backend/internal/facturen/transport"
	"groenportaal_backend/platform/httpkit"
	"groenportaal_backend/platform/logger"
	"groenportaal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Service defines the invoice operations the handler depends on.
type Service interface {
	CreateFromProject(ctx context.Context, bedrijfID uuid.UUID, req transport.CreateFactuurRequest) (transport.Factuur, error)
	ByID(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Factuur, error)
	List(ctx context.Context, bedrijfID uuid.UUID, filter transport.ListFilter) ([]transport.Factuur, error)
	Verzend(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Factuur, error)
	MarkeerBetaald(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Factuur, error)
	BetaalQR(ctx context.Context, bedrijfID, id uuid.UUID) ([]byte, error)
}

// Handler handles factuur HTTP requests.
type Handler struct {
	service   Service
	logger    *logger.Logger
	validator *validator.Validator
}

// New creates a new facturen handler.
func New(service Service, log *logger.Logger, val *validator.Validator) *Handler {
	return &Handler{service: service, logger: log, validator: val}
}

// List returns the tenant's facturen.
// GET /api/v1/facturen
func (h *Handler) List(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	filter := transport.ListFilter{
		Status: transport.FactuurStatus(c.Query("status")),
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filter.Offset = offset
	}

	facturen, err := h.service.List(c.Request.Context(), tenantID, filter)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"facturen": facturen})
}

// Get returns one factuur.
// GET /api/v1/facturen/:id
func (h *Handler) Get(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	factuur, err := h.service.ByID(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, factuur)
}

// Create drafts a concept factuur from a completed project.
// POST /api/v1/facturen
func (h *Handler) Create(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	var req transport.CreateFactuurRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "ongeldige aanvraag", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validatie mislukt", err.Error())
		return
	}

	factuur, err := h.service.CreateFromProject(c.Request.Context(), tenantID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, factuur)
}

// Verzend marks a factuur as sent and stamps the due date.
// POST /api/v1/facturen/:id/verzend
func (h *Handler) Verzend(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	factuur, err := h.service.Verzend(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, factuur)
}

// MarkeerBetaald marks a factuur as paid.
// POST /api/v1/facturen/:id/betaald
func (h *Handler) MarkeerBetaald(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	factuur, err := h.service.MarkeerBetaald(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, factuur)
}

// BetaalQR serves the SEPA payment QR code as a PNG.
// GET /api/v1/facturen/:id/qr
func (h *Handler) BetaalQR(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	png, err := h.service.BetaalQR(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) tenantEnID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "ongeldig id", nil)
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, id, true
}
