// Package handler contains the HTTP handlers for rapportage.
package handler

import (
	"context"
	"strconv"

	"groenportaal_backend/internal/rapportage/transport"
	"groenportaal_backend/platform/httpkit"
	"groenportaal_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Service defines the reporting operations the handler depends on.
type Service interface {
	Overzicht(ctx context.Context, bedrijfID uuid.UUID, maanden int) (transport.Overzicht, error)
	Prognose(ctx context.Context, bedrijfID uuid.UUID) (transport.Prognose, error)
}

// Handler handles reporting HTTP requests.
type Handler struct {
	service Service
	logger  *logger.Logger
}

// New creates a new rapportage handler.
func New(service Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// Overzicht returns the monthly dashboard aggregates.
// GET /api/v1/rapportage/overzicht?maanden=6
func (h *Handler) Overzicht(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	maanden, _ := strconv.Atoi(c.DefaultQuery("maanden", "6"))

	overzicht, err := h.service.Overzicht(c.Request.Context(), tenantID, maanden)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, overzicht)
}

// Prognose returns the three-month forecast.
// GET /api/v1/rapportage/prognose
func (h *Handler) Prognose(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	prognose, err := h.service.Prognose(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, prognose)
}
