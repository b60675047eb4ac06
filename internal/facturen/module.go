// Package facturen bundles invoicing: drafts from completed projects,
// correction lines from the nacalculatie and SEPA payment QR codes.
package facturen

import (
	"groenportaal_backend/internal/facturen/handler"
	"groenportaal_backend/internal/facturen/repository"
	"groenportaal_backend/internal/facturen/service"
	apphttp "groenportaal_backend/internal/http"
	"groenportaal_backend/platform/events"
	"groenportaal_backend/platform/logger"
	"groenportaal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the facturen layers together.
type Module struct {
	service *service.Service
	handler *handler.Handler
}

// NewModule creates the facturen module.
func NewModule(
	pool *pgxpool.Pool,
	projecten service.ProjectLezer,
	bedrijven service.BedrijfLezer,
	bus events.Bus,
	log *logger.Logger,
	val *validator.Validator,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, projecten, bedrijven, bus, log)
	svc.RegisterEventHandlers(bus)
	h := handler.New(svc, log, val)

	return &Module{service: svc, handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "facturen" }

// Service exposes the invoice service.
func (m *Module) Service() *service.Service { return m.service }

// RegisterRoutes mounts the invoice routes. All routes require authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/facturen")
	{
		group.GET("", m.handler.List)
		group.GET("/:id", m.handler.Get)
		group.POST("", m.handler.Create)
		group.POST("/:id/verzend", m.handler.Verzend)
		group.POST("/:id/betaald", m.handler.MarkeerBetaald)
		group.GET("/:id/qr", m.handler.BetaalQR)
	}
}
