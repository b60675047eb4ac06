// Package rapportage bundles the reporting dashboards: monthly aggregates,
// estimation accuracy and the workload forecast.
package rapportage

import (
	apphttp "groenportaal_backend/internal/http"
	"groenportaal_backend/internal/rapportage/handler"
	"groenportaal_backend/internal/rapportage/repository"
	"groenportaal_backend/internal/rapportage/service"
	"groenportaal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the rapportage layers together.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the rapportage module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, log)

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "rapportage" }

// RegisterRoutes mounts the reporting routes. All routes require
// authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/rapportage")
	{
		group.GET("/overzicht", m.handler.Overzicht)
		group.GET("/prognose", m.handler.Prognose)
	}
}
