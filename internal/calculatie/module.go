// Package calculatie bundles the estimation and variance engines with their
// catalog storage behind a single module.
package calculatie

import (
	"groenportaal_backend/internal/calculatie/handler"
	"groenportaal_backend/internal/calculatie/repository"
	"groenportaal_backend/internal/calculatie/service"
	apphttp "groenportaal_backend/internal/http"
	"groenportaal_backend/platform/logger"
	"groenportaal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the calculatie layers together.
type Module struct {
	service *service.Service
	handler *handler.Handler
}

// NewModule creates the calculatie module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, log, val)

	return &Module{
		service: svc,
		handler: h,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "calculatie" }

// Service exposes the calculatie service for other modules (offertes snapshots
// a voorcalculatie, projecten runs the nacalculatie).
func (m *Module) Service() *service.Service { return m.service }

// RegisterRoutes mounts the calculatie routes. All routes require authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/calculatie")
	{
		group.GET("/normuren", m.handler.ListNormuren)
		group.POST("/normuren", m.handler.SaveNormuur)
		group.DELETE("/normuren/:id", m.handler.DeleteNormuur)

		group.GET("/correctiefactoren", m.handler.ListCorrectiefactoren)
		group.POST("/correctiefactoren", m.handler.SaveCorrectiefactor)
		group.DELETE("/correctiefactoren/:id", m.handler.DeleteCorrectiefactor)

		group.POST("/voorcalculatie", m.handler.Voorcalculatie)
	}
}
