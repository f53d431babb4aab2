// Package appointments provides the appointment management bounded context
// module.
package appointments

import (
	"time"

	"ausmass_backend/internal/appointments/handler"
	"ausmass_backend/internal/appointments/repository"
	"ausmass_backend/internal/appointments/service"
	apphttp "ausmass_backend/internal/http"
	"ausmass_backend/internal/scheduler"
	"ausmass_backend/platform/logger"
	"ausmass_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the appointments bounded context module implementing
// http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the appointments module. reminders may
// be nil when redis is not configured.
func NewModule(pool *pgxpool.Pool, reminders scheduler.ReminderScheduler, leadTime time.Duration, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, reminders, leadTime, log.WithComponent("appointments"))
	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "appointments"
}

// RegisterRoutes mounts the appointment routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/appointments"))
}
