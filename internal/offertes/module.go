// Package offertes bundles quote management: drafting, estimation snapshots
// and the send/accept/reject lifecycle.
package offertes

import (
	calcservice "groenportaal_backend/internal/calculatie/service"
	apphttp "groenportaal_backend/internal/http"
	"groenportaal_backend/internal/offertes/handler"
	"groenportaal_backend/internal/offertes/repository"
	"groenportaal_backend/internal/offertes/service"
	"groenportaal_backend/platform/events"
	"groenportaal_backend/platform/logger"
	"groenportaal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the offertes layers together.
type Module struct {
	service *service.Service
	handler *handler.Handler
}

// NewModule creates the offertes module.
func NewModule(pool *pgxpool.Pool, calculator *calcservice.Service, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, calculator, bus, log)
	h := handler.New(svc, log, val)

	return &Module{service: svc, handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "offertes" }

// Service exposes the offerte service for the scheduler's expiry sweep.
func (m *Module) Service() *service.Service { return m.service }

// RegisterRoutes mounts the offerte routes. All routes require authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/offertes")
	{
		group.GET("", m.handler.List)
		group.POST("", m.handler.Create)
		group.GET("/:id", m.handler.Get)
		group.PUT("/:id", m.handler.Update)
		group.DELETE("/:id", m.handler.Delete)

		group.POST("/:id/voorcalculatie", m.handler.Voorcalculatie)
		group.POST("/:id/verzend", m.handler.Verzend)
		group.POST("/:id/accepteer", m.handler.Accepteer)
		group.POST("/:id/wijs-af", m.handler.WijsAf)
	}
}
