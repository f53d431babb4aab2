// Package sync provides the Bexio export bounded context module.
package sync

import (
	"ausmass_backend/internal/bexio"
	apphttp "ausmass_backend/internal/http"
	"ausmass_backend/internal/sync/handler"
	"ausmass_backend/internal/sync/repository"
	"ausmass_backend/internal/sync/service"
	"ausmass_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the Bexio export module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the sync module with its dependencies.
func NewModule(pool *pgxpool.Pool, client *bexio.Client, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, client, log.WithComponent("sync"))
	return &Module{handler: handler.New(svc)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "sync"
}

// RegisterRoutes mounts the sync routes. The export talks to a third-party
// API, so both entry points sit behind the shared rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	limited := ctx.SyncRateLimiter.RateLimit()
	ctx.V1.POST("/projects/:id/sync-bexio", limited, m.handler.SyncProject)
	ctx.V1.POST("/sync/bexio", limited, m.handler.Sync)
}
