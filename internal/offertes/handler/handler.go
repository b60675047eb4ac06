// Package handler contains the HTTP handlers for offertes.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"groenportaal_backend/internal/offertes/transport"
	"groenportaal_backend/platform/httpkit"
	"groenportaal_backend/platform/logger"
	"groenportaal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Service defines the offerte operations the handler depends on.
type Service interface {
	Create(ctx context.Context, bedrijfID uuid.UUID, req transport.CreateOfferteRequest) (transport.Offerte, error)
	Update(ctx context.Context, bedrijfID, id uuid.UUID, req transport.UpdateOfferteRequest) (transport.Offerte, error)
	ByID(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Offerte, error)
	List(ctx context.Context, bedrijfID uuid.UUID, filter transport.ListFilter) ([]transport.Offerte, error)
	Delete(ctx context.Context, bedrijfID, id uuid.UUID) error
	Voorcalculatie(ctx context.Context, bedrijfID, id uuid.UUID, req transport.VoorcalculatieRequest) (transport.Offerte, error)
	Verzend(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Offerte, error)
	Accepteer(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Offerte, error)
	WijsAf(ctx context.Context, bedrijfID, id uuid.UUID, req transport.AfwijzenRequest) (transport.Offerte, error)
}

// Handler handles offerte HTTP requests.
type Handler struct {
	service   Service
	logger    *logger.Logger
	validator *validator.Validator
}

// New creates a new offertes handler.
func New(service Service, log *logger.Logger, val *validator.Validator) *Handler {
	return &Handler{service: service, logger: log, validator: val}
}

// List returns the tenant's offertes.
// GET /api/v1/offertes
func (h *Handler) List(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	filter := transport.ListFilter{
		Status: transport.OfferteStatus(c.Query("status")),
		Zoek:   c.Query("zoek"),
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filter.Offset = offset
	}

	offertes, err := h.service.List(c.Request.Context(), tenantID, filter)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"offertes": offertes})
}

// Get returns one offerte.
// GET /api/v1/offertes/:id
func (h *Handler) Get(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	offerte, err := h.service.ByID(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, offerte)
}

// Create drafts a new concept offerte.
// POST /api/v1/offertes
func (h *Handler) Create(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	var req transport.CreateOfferteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "ongeldige aanvraag", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validatie mislukt", err.Error())
		return
	}

	offerte, err := h.service.Create(c.Request.Context(), tenantID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, offerte)
}

// Update replaces the editable fields of a concept offerte.
// PUT /api/v1/offertes/:id
func (h *Handler) Update(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	var req transport.UpdateOfferteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "ongeldige aanvraag", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validatie mislukt", err.Error())
		return
	}

	offerte, err := h.service.Update(c.Request.Context(), tenantID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, offerte)
}

// Delete removes a concept offerte.
// DELETE /api/v1/offertes/:id
func (h *Handler) Delete(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), tenantID, id); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

// Voorcalculatie computes and stores the estimation snapshot.
// POST /api/v1/offertes/:id/voorcalculatie
func (h *Handler) Voorcalculatie(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	var req transport.VoorcalculatieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "ongeldige aanvraag", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validatie mislukt", err.Error())
		return
	}

	offerte, err := h.service.Voorcalculatie(c.Request.Context(), tenantID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, offerte)
}

// Verzend marks an offerte as sent.
// POST /api/v1/offertes/:id/verzend
func (h *Handler) Verzend(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	offerte, err := h.service.Verzend(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, offerte)
}

// Accepteer marks an offerte as accepted.
// POST /api/v1/offertes/:id/accepteer
func (h *Handler) Accepteer(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	offerte, err := h.service.Accepteer(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, offerte)
}

// WijsAf marks an offerte as rejected.
// POST /api/v1/offertes/:id/wijs-af
func (h *Handler) WijsAf(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	var req transport.AfwijzenRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "ongeldige aanvraag", err.Error())
			return
		}
	}

	offerte, err := h.service.WijsAf(c.Request.Context(), tenantID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, offerte)
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
