// Package catalog provides the category settings bounded context module.
// Catalog entries carry the offer texts and prices the Bexio export joins
// against measurement categories.
package catalog

import (
	"ausmass_backend/internal/catalog/handler"
	"ausmass_backend/internal/catalog/repository"
	"ausmass_backend/internal/catalog/service"
	apphttp "ausmass_backend/internal/http"
	"ausmass_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the catalog module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// RegisterRoutes mounts the catalog routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/settings/categories"))
}
