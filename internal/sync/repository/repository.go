// Package repository provides the read queries the Bexio export needs. The
// export re-fetches everything on every invocation and keeps no sync state
// beyond the project's sent flag.
package repository

import (
	"context"
	"errors"
	"fmt"

	"ausmass_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Project is the export view of a project.
type Project struct {
	ID           uuid.UUID
	CustomerName string
	Address      string
	Status       string
	Scope        *string
	BexioSent    bool
}

// Room is the export view of a room.
type Room struct {
	ID        uuid.UUID
	Name      string
	SortOrder int
}

// Measurement is the export view of a measurement. Quantity is trusted
// verbatim; length/width/height are capture-time audit data and not loaded.
type Measurement struct {
	ID          uuid.UUID
	Category    string
	Description string
	Quantity    float64
	Unit        string
	Notes       string
}

// CategorySetting is the pricing/text catalog entry joined against
// measurement categories.
type CategorySetting struct {
	Category         string
	OfferTitle       string
	OfferDescription *string
	TaxRate          float64
	UnitPrice        float64
}

// Repository provides database reads for the export.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new sync repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetProject loads one project by id.
func (r *Repository) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	query := `
		SELECT id, customer_name, address, status, scope, bexio_sent
		FROM projects
		WHERE id = $1`

	var p Project
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.CustomerName, &p.Address, &p.Status, &p.Scope, &p.BexioSent,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Projekt nicht gefunden")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return &p, nil
}

// RoomsByProject loads a project's rooms in ascending sort order.
func (r *Repository) RoomsByProject(ctx context.Context, projectID uuid.UUID) ([]Room, error) {
	query := `
		SELECT id, name, sort_order
		FROM rooms
		WHERE project_id = $1
		ORDER BY sort_order ASC`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		var room Room
		if err := rows.Scan(&room.ID, &room.Name, &room.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// MeasurementsByRoom loads a room's measurements in ascending category
// order; that load order is also the grouping order of the export.
func (r *Repository) MeasurementsByRoom(ctx context.Context, roomID uuid.UUID) ([]Measurement, error) {
	query := `
		SELECT id, category, description, quantity, unit, notes
		FROM measurements
		WHERE room_id = $1
		ORDER BY category ASC`

	rows, err := r.pool.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load measurements: %w", err)
	}
	defer rows.Close()

	var measurements []Measurement
	for rows.Next() {
		var m Measurement
		if err := rows.Scan(&m.ID, &m.Category, &m.Description, &m.Quantity, &m.Unit, &m.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan measurement: %w", err)
		}
		measurements = append(measurements, m)
	}
	return measurements, rows.Err()
}

// ActiveCategorySettingsForScope loads the active catalog entries for one
// project scope.
func (r *Repository) ActiveCategorySettingsForScope(ctx context.Context, scope string) ([]CategorySetting, error) {
	query := `
		SELECT category, offer_title, offer_description, tax_rate, unit_price
		FROM category_settings
		WHERE is_active = true AND scope = $1`

	return r.queryCategorySettings(ctx, query, scope)
}

// ActiveCategorySettings loads all active catalog entries regardless of
// scope. Used as the fallback when the scoped query fails.
func (r *Repository) ActiveCategorySettings(ctx context.Context) ([]CategorySetting, error) {
	query := `
		SELECT category, offer_title, offer_description, tax_rate, unit_price
		FROM category_settings
		WHERE is_active = true`

	return r.queryCategorySettings(ctx, query)
}

func (r *Repository) queryCategorySettings(ctx context.Context, query string, args ...any) ([]CategorySetting, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load category settings: %w", err)
	}
	defer rows.Close()

	var settings []CategorySetting
	for rows.Next() {
		var s CategorySetting
		if err := rows.Scan(&s.Category, &s.OfferTitle, &s.OfferDescription, &s.TaxRate, &s.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan category setting: %w", err)
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// MarkProjectSent flags a project as exported to Bexio.
func (r *Repository) MarkProjectSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE projects SET bexio_sent = true, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark project sent: %w", err)
	}
	return nil
}
