// Package customers provides the customer management bounded context module.
package customers

import (
	"ausmass_backend/internal/customers/handler"
	"ausmass_backend/internal/customers/repository"
	"ausmass_backend/internal/customers/service"
	apphttp "ausmass_backend/internal/http"
	"ausmass_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the customers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the customers module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "customers"
}

// RegisterRoutes mounts the customer routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/customers"))
}
