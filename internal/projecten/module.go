// Package projecten bundles project execution: hour logging, machine usage,
// variance analysis and photo attachments.
package projecten

import (
	"groenportaal_backend/internal/adapters/storage"
	calcservice "groenportaal_backend/internal/calculatie/service"
	apphttp "groenportaal_backend/internal/http"
	offerteservice "groenportaal_backend/internal/offertes/service"
	"groenportaal_backend/internal/projecten/handler"
	"groenportaal_backend/internal/projecten/repository"
	"groenportaal_backend/internal/projecten/service"
	"groenportaal_backend/platform/events"
	"groenportaal_backend/platform/logger"
	"groenportaal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the projecten layers together.
type Module struct {
	service *service.Service
	handler *handler.Handler
}

// NewModule creates the projecten module. The storage client may be nil when
// object storage is not configured; photo endpoints then return an error.
func NewModule(
	pool *pgxpool.Pool,
	offertes *offerteservice.Service,
	calculator *calcservice.Service,
	opslag *storage.Client,
	bus events.Bus,
	log *logger.Logger,
	val *validator.Validator,
) *Module {
	repo := repository.New(pool)

	var fotoOpslag service.FotoOpslag
	if opslag != nil {
		fotoOpslag = opslag
	}

	svc := service.New(repo, offertes, calculator, fotoOpslag, bus, log)
	svc.RegisterEventHandlers(bus)
	h := handler.New(svc, log, val)

	return &Module{service: svc, handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "projecten" }

// Service exposes the project service for the scheduler's snapshot task.
func (m *Module) Service() *service.Service { return m.service }

// RegisterRoutes mounts the project routes. All routes require authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/projecten")
	{
		group.GET("", m.handler.List)
		group.GET("/:id", m.handler.Get)
		group.POST("/:id/start", m.handler.Start)
		group.POST("/:id/rond-af", m.handler.RondAf)

		group.GET("/:id/uren", m.handler.Uren)
		group.POST("/:id/uren", m.handler.LogUren)
		group.GET("/:id/machines", m.handler.Machines)
		group.POST("/:id/machines", m.handler.LogMachine)

		group.GET("/:id/nacalculatie", m.handler.Nacalculatie)

		group.GET("/:id/fotos", m.handler.Fotos)
		group.POST("/:id/fotos", m.handler.RegistreerFoto)
	}
}
