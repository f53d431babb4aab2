// Package projects provides the project capture bounded context module:
// projects, rooms, measurements and measurement photos.
package projects

import (
	apphttp "ausmass_backend/internal/http"
	"ausmass_backend/internal/projects/handler"
	"ausmass_backend/internal/projects/repository"
	"ausmass_backend/internal/projects/service"
	"ausmass_backend/internal/storage"
	"ausmass_backend/platform/logger"
	"ausmass_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the projects bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the projects module. photos may be nil
// when object storage is not configured.
func NewModule(pool *pgxpool.Pool, photos storage.PhotoStore, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, photos, log.WithComponent("projects"))
	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "projects"
}

// RegisterRoutes mounts the project tree routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1)
}
