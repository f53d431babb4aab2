package service

import (
	"context"
	"strings"

	"ausmass_backend/internal/bexio"
	"ausmass_backend/internal/sync/repository"
	"ausmass_backend/internal/sync/transport"
	"ausmass_backend/platform/apperr"
	"ausmass_backend/platform/logger"

	"github.com/google/uuid"
)

// Store is the persistence surface the export reads from.
type Store interface {
	GetProject(ctx context.Context, id uuid.UUID) (*repository.Project, error)
	RoomsByProject(ctx context.Context, projectID uuid.UUID) ([]repository.Room, error)
	MeasurementsByRoom(ctx context.Context, roomID uuid.UUID) ([]repository.Measurement, error)
	ActiveCategorySettingsForScope(ctx context.Context, scope string) ([]repository.CategorySetting, error)
	ActiveCategorySettings(ctx context.Context) ([]repository.CategorySetting, error)
	MarkProjectSent(ctx context.Context, id uuid.UUID) error
}

var _ Store = (*repository.Repository)(nil)

// Service exports a project's measurements into a Bexio quote. Every
// invocation is independent and stateless; it re-fetches everything it
// needs and keeps nothing afterwards. Re-running the export for the same
// project creates a second quote.
type Service struct {
	store  Store
	client *bexio.Client
	log    *logger.Logger
}

// New creates a new sync service.
func New(store Store, client *bexio.Client, log *logger.Logger) *Service {
	return &Service{store: store, client: client, log: log}
}

// SyncProject assembles a project's rooms and measurements into quote
// positions and posts them to Bexio. Per-position failures are reported in
// the result; only input errors, a missing project, an upstream 401 and a
// failed quote creation abort the export.
func (s *Service) SyncProject(ctx context.Context, projectID string) (*transport.SyncResult, error) {
	result, err := s.sync(ctx, projectID)
	if err != nil {
		if _, ok := err.(*apperr.Error); !ok {
			err = apperr.Wrap(apperr.KindInternal, err.Error(), err)
		}
		return nil, err
	}
	return result, nil
}

func (s *Service) sync(ctx context.Context, projectID string) (*transport.SyncResult, error) {
	trimmed := strings.TrimSpace(projectID)
	if trimmed == "" {
		return nil, apperr.BadRequest("Projekt-ID fehlt")
	}
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return nil, apperr.NotFound("Projekt nicht gefunden")
	}

	project, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	positions, err := s.buildPositions(ctx, project)
	if err != nil {
		return nil, err
	}

	contactID, err := s.client.ResolveContact(ctx, project.CustomerName, project.Address)
	if err != nil {
		return nil, err
	}
	if contactID == nil {
		s.log.Warn("bexio contact unresolved, creating quote without contact",
			"project_id", project.ID, "customer", project.CustomerName)
	}

	quote, err := s.client.CreateQuote(ctx, "Ausmass - "+project.CustomerName, contactID)
	if err != nil {
		return nil, err
	}

	catalog := s.client.FetchTaxCatalog(ctx)

	submitted, err := s.client.SubmitPositions(ctx, quote.ID, positions, catalog)
	if err != nil {
		return nil, err
	}

	if err := s.store.MarkProjectSent(ctx, project.ID); err != nil {
		s.log.Warn("failed to flag project as sent", "project_id", project.ID, "error", err)
	}

	s.log.Info("bexio sync finished",
		"project_id", project.ID,
		"quote_id", quote.ID,
		"positions", len(positions),
		"succeeded", submitted.SuccessCount,
		"failed", submitted.FailCount,
	)

	errorsList := submitted.Errors
	if errorsList == nil {
		errorsList = []bexio.PositionError{}
	}

	return &transport.SyncResult{
		Success:        true,
		Message:        "Offerte erfolgreich zu Bexio übertragen",
		QuoteID:        quote.ID,
		QuoteNumber:    quote.DocumentNr,
		SuccessCount:   submitted.SuccessCount,
		FailCount:      submitted.FailCount,
		PositionsCount: len(positions),
		Errors:         errorsList,
	}, nil
}

// buildPositions walks the project's rooms in sort order and produces the
// ordered position list: a header per non-empty room followed by its
// measurements in category-then-load order.
func (s *Service) buildPositions(ctx context.Context, project *repository.Project) ([]bexio.Position, error) {
	rooms, err := s.store.RoomsByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	settings, err := s.loadCategorySettings(ctx, project.Scope)
	if err != nil {
		return nil, err
	}
	byCategory := settingsByCategory(settings)

	var positions []bexio.Position
	for _, room := range rooms {
		measurements, err := s.store.MeasurementsByRoom(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		positions = append(positions, buildRoomPositions(room, measurements, byCategory)...)
	}
	return positions, nil
}

// loadCategorySettings filters the catalog by the project's scope when one
// is set. The scoped query is best effort: on failure the unfiltered
// catalog is used instead.
func (s *Service) loadCategorySettings(ctx context.Context, scope *string) ([]repository.CategorySetting, error) {
	if scope != nil && *scope != "" {
		settings, err := s.store.ActiveCategorySettingsForScope(ctx, *scope)
		if err == nil {
			return settings, nil
		}
		s.log.Warn("scoped category settings query failed, falling back to unfiltered",
			"scope", *scope, "error", err)
	}
	return s.store.ActiveCategorySettings(ctx)
}
