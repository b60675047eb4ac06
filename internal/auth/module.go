// Package auth bundles registration, login and token management.
package auth

import (
	"groenportaal_backend/internal/auth/handler"
	"groenportaal_backend/internal/auth/repository"
	"groenportaal_backend/internal/auth/service"
	apphttp "groenportaal_backend/internal/http"
	"groenportaal_backend/platform/config"
	"groenportaal_backend/platform/logger"
	"groenportaal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the auth layers together.
type Module struct {
	repo    *repository.Repository
	handler *handler.Handler
}

// NewModule creates the auth module.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	h := handler.New(svc, log, val)

	return &Module{repo: repo, handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "auth" }

// Repository exposes the account and bedrijf storage for other modules.
func (m *Module) Repository() *repository.Repository { return m.repo }

// RegisterRoutes mounts the auth routes. Public routes get the stricter
// rate limit; /me requires authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/auth")
	public.Use(ctx.AuthRateLimiter.RateLimit())
	{
		public.POST("/register", m.handler.Register)
		public.POST("/login", m.handler.Login)
		public.POST("/refresh", m.handler.Refresh)
	}

	ctx.Protected.GET("/auth/me", m.handler.Me)
	ctx.Protected.PUT("/auth/bedrijf", m.handler.UpdateBedrijf)
}
