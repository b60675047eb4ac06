// Package handler contains the HTTP handlers for projecten.
package handler

import (
	"context"
	"net/http"
	"strconv"

	calctransport "groenportaal_backend/internal/calculatie/transport"
	"groenportaal_backend/internal/projecten/transport"
	"groenportaal_backend/platform/httpkit"
	"groenportaal_backend/platform/logger"
	"groenportaal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Service defines the project operations the handler depends on.
type Service interface {
	ByID(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Project, error)
	List(ctx context.Context, bedrijfID uuid.UUID, filter transport.ListFilter) ([]transport.Project, error)
	Start(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Project, error)
	RondAf(ctx context.Context, bedrijfID, id uuid.UUID) (transport.Project, error)
	LogUren(ctx context.Context, bedrijfID, projectID uuid.UUID, req transport.UrenRequest) (calctransport.Urenregistratie, error)
	Uren(ctx context.Context, bedrijfID, projectID uuid.UUID) ([]calctransport.Urenregistratie, error)
	LogMachine(ctx context.Context, bedrijfID, projectID uuid.UUID, req transport.MachineRequest) (calctransport.Machinegebruik, error)
	Machines(ctx context.Context, bedrijfID, projectID uuid.UUID) ([]calctransport.Machinegebruik, error)
	Nacalculatie(ctx context.Context, bedrijfID, projectID uuid.UUID) (calctransport.NacalculatieResultaat, error)
	RegistreerFoto(ctx context.Context, bedrijfID, projectID uuid.UUID, req transport.FotoRequest) (transport.FotoUploadResponse, error)
	Fotos(ctx context.Context, bedrijfID, projectID uuid.UUID) ([]transport.Foto, map[uuid.UUID]string, error)
}

// Handler handles project HTTP requests.
type Handler struct {
	service   Service
	logger    *logger.Logger
	validator *validator.Validator
}

// New creates a new projecten handler.
func New(service Service, log *logger.Logger, val *validator.Validator) *Handler {
	return &Handler{service: service, logger: log, validator: val}
}

// List returns the tenant's projects.
// GET /api/v1/projecten
func (h *Handler) List(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	filter := transport.ListFilter{
		Status: transport.ProjectStatus(c.Query("status")),
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filter.Offset = offset
	}

	projecten, err := h.service.List(c.Request.Context(), tenantID, filter)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"projecten": projecten})
}

// Get returns one project.
// GET /api/v1/projecten/:id
func (h *Handler) Get(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	project, err := h.service.ByID(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, project)
}

// Start moves a planned project into execution.
// POST /api/v1/projecten/:id/start
func (h *Handler) Start(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	project, err := h.service.Start(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, project)
}

// RondAf completes a project.
// POST /api/v1/projecten/:id/rond-af
func (h *Handler) RondAf(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	project, err := h.service.RondAf(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, project)
}

// LogUren appends an hour log entry.
// POST /api/v1/projecten/:id/uren
func (h *Handler) LogUren(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	var req transport.UrenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "ongeldige aanvraag", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validatie mislukt", err.Error())
		return
	}

	entry, err := h.service.LogUren(c.Request.Context(), tenantID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, entry)
}

// Uren returns the project's hour log.
// GET /api/v1/projecten/:id/uren
func (h *Handler) Uren(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	entries, err := h.service.Uren(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"uren": entries})
}

// LogMachine appends a machine usage entry.
// POST /api/v1/projecten/:id/machines
func (h *Handler) LogMachine(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	var req transport.MachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "ongeldige aanvraag", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validatie mislukt", err.Error())
		return
	}

	entry, err := h.service.LogMachine(c.Request.Context(), tenantID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, entry)
}

// Machines returns the project's machine usage log.
// GET /api/v1/projecten/:id/machines
func (h *Handler) Machines(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	entries, err := h.service.Machines(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"machines": entries})
}

// Nacalculatie returns the on-demand variance analysis.
// GET /api/v1/projecten/:id/nacalculatie
func (h *Handler) Nacalculatie(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	resultaat, err := h.service.Nacalculatie(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resultaat)
}

// RegistreerFoto registers a photo and returns a presigned upload URL.
// POST /api/v1/projecten/:id/fotos
func (h *Handler) RegistreerFoto(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	var req transport.FotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "ongeldige aanvraag", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validatie mislukt", err.Error())
		return
	}

	resp, err := h.service.RegistreerFoto(c.Request.Context(), tenantID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, resp)
}

// Fotos returns the project's photos with download URLs.
// GET /api/v1/projecten/:id/fotos
func (h *Handler) Fotos(c *gin.Context) {
	tenantID, id, ok := h.tenantEnID(c)
	if !ok {
		return
	}

	fotos, urls, err := h.service.Fotos(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"fotos": fotos, "downloadUrls": urls})
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
