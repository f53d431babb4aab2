package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ausmass_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	projectNotFoundMsg     = "Projekt nicht gefunden"
	roomNotFoundMsg        = "Raum nicht gefunden"
	measurementNotFoundMsg = "Messung nicht gefunden"
	photoNotFoundMsg       = "Foto nicht gefunden"
)

// Project represents the project database model.
type Project struct {
	ID              uuid.UUID
	CustomerID      *uuid.UUID
	CustomerName    string
	Address         string
	Status          string
	Scope           *string
	AppointmentDate *time.Time
	Notes           string
	BexioSent       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Room represents the room database model.
type Room struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	Name      string
	SortOrder int
	CreatedAt time.Time
}

// Measurement represents the measurement database model. Length, width and
// height document how the quantity was captured; the export trusts the
// quantity verbatim.
type Measurement struct {
	ID          uuid.UUID
	RoomID      uuid.UUID
	Category    string
	Description string
	Quantity    float64
	Unit        string
	Length      *float64
	Width       *float64
	Height      *float64
	Notes       string
	CreatedAt   time.Time
}

// Photo represents the measurement photo database model. The image itself
// lives in object storage under ObjectKey.
type Photo struct {
	ID            uuid.UUID
	MeasurementID uuid.UUID
	ObjectKey     string
	CreatedAt     time.Time
}

// ProjectFilter narrows the project listing.
type ProjectFilter struct {
	Status string
	Search string
}

// Repository provides database operations for projects, rooms,
// measurements and photos.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new projects repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const projectColumns = `id, customer_id, customer_name, address, status, scope, appointment_date, notes, bexio_sent, created_at, updated_at`

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.CustomerID, &p.CustomerName, &p.Address, &p.Status,
		&p.Scope, &p.AppointmentDate, &p.Notes, &p.BexioSent, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject inserts a new project and returns the stored row.
func (r *Repository) CreateProject(ctx context.Context, p *Project) (*Project, error) {
	query := `
		INSERT INTO projects (customer_id, customer_name, address, status, scope, appointment_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + projectColumns

	created, err := scanProject(r.pool.QueryRow(ctx, query,
		p.CustomerID, p.CustomerName, p.Address, p.Status, p.Scope, p.AppointmentDate, p.Notes))
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return created, nil
}

// GetProject retrieves a project by its id.
func (r *Repository) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	p, err := scanProject(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(projectNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// ListProjects retrieves projects newest first, optionally filtered by
// status and a search term over customer name and address.
func (r *Repository) ListProjects(ctx context.Context, filter ProjectFilter) ([]Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	var (
		conditions []string
		args       []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(customer_name ILIKE $%d OR address ILIKE $%d)", len(args), len(args)))
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// UpdateProject overwrites a project's fields and returns the stored row.
func (r *Repository) UpdateProject(ctx context.Context, p *Project) (*Project, error) {
	query := `
		UPDATE projects
		SET customer_id = $2, customer_name = $3, address = $4, status = $5,
		    scope = $6, appointment_date = $7, notes = $8, updated_at = now()
		WHERE id = $1
		RETURNING ` + projectColumns

	updated, err := scanProject(r.pool.QueryRow(ctx, query,
		p.ID, p.CustomerID, p.CustomerName, p.Address, p.Status, p.Scope, p.AppointmentDate, p.Notes))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(projectNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return updated, nil
}

// DeleteProject removes a project and, via cascade, its rooms and
// measurements.
func (r *Repository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(projectNotFoundMsg)
	}
	return nil
}

const roomColumns = `id, project_id, name, sort_order, created_at`

func scanRoom(row pgx.Row) (*Room, error) {
	var room Room
	err := row.Scan(&room.ID, &room.ProjectID, &room.Name, &room.SortOrder, &room.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// CreateRoom inserts a new room. A missing sort order is assigned after the
// project's current maximum.
func (r *Repository) CreateRoom(ctx context.Context, room *Room, sortOrder *int) (*Room, error) {
	query := `
		INSERT INTO rooms (project_id, name, sort_order)
		VALUES ($1, $2, COALESCE($3::int, (SELECT COALESCE(MAX(sort_order), -1) + 1 FROM rooms WHERE project_id = $1)))
		RETURNING ` + roomColumns

	created, err := scanRoom(r.pool.QueryRow(ctx, query, room.ProjectID, room.Name, sortOrder))
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return created, nil
}

// GetRoom retrieves a room by its id.
func (r *Repository) GetRoom(ctx context.Context, id uuid.UUID) (*Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`

	room, err := scanRoom(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(roomNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}

// ListRooms retrieves a project's rooms in ascending sort order.
func (r *Repository) ListRooms(ctx context.Context, projectID uuid.UUID) ([]Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE project_id = $1 ORDER BY sort_order ASC`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, *room)
	}
	return rooms, rows.Err()
}

// UpdateRoom overwrites a room's fields and returns the stored row.
func (r *Repository) UpdateRoom(ctx context.Context, room *Room) (*Room, error) {
	query := `
		UPDATE rooms SET name = $2, sort_order = $3 WHERE id = $1
		RETURNING ` + roomColumns

	updated, err := scanRoom(r.pool.QueryRow(ctx, query, room.ID, room.Name, room.SortOrder))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(roomNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}
	return updated, nil
}

// DeleteRoom removes a room and, via cascade, its measurements.
func (r *Repository) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(roomNotFoundMsg)
	}
	return nil
}

const measurementColumns = `id, room_id, category, description, quantity, unit, length, width, height, notes, created_at`

func scanMeasurement(row pgx.Row) (*Measurement, error) {
	var m Measurement
	err := row.Scan(&m.ID, &m.RoomID, &m.Category, &m.Description, &m.Quantity,
		&m.Unit, &m.Length, &m.Width, &m.Height, &m.Notes, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMeasurement inserts a new measurement and returns the stored row.
func (r *Repository) CreateMeasurement(ctx context.Context, m *Measurement) (*Measurement, error) {
	query := `
		INSERT INTO measurements (room_id, category, description, quantity, unit, length, width, height, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + measurementColumns

	created, err := scanMeasurement(r.pool.QueryRow(ctx, query,
		m.RoomID, m.Category, m.Description, m.Quantity, m.Unit, m.Length, m.Width, m.Height, m.Notes))
	if err != nil {
		return nil, fmt.Errorf("failed to create measurement: %w", err)
	}
	return created, nil
}

// GetMeasurement retrieves a measurement by its id.
func (r *Repository) GetMeasurement(ctx context.Context, id uuid.UUID) (*Measurement, error) {
	query := `SELECT ` + measurementColumns + ` FROM measurements WHERE id = $1`

	m, err := scanMeasurement(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(measurementNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get measurement: %w", err)
	}
	return m, nil
}

// ListMeasurements retrieves a room's measurements in ascending category
// order, the same order the export groups them in.
func (r *Repository) ListMeasurements(ctx context.Context, roomID uuid.UUID) ([]Measurement, error) {
	query := `SELECT ` + measurementColumns + ` FROM measurements WHERE room_id = $1 ORDER BY category ASC`

	rows, err := r.pool.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}
	defer rows.Close()

	var measurements []Measurement
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan measurement: %w", err)
		}
		measurements = append(measurements, *m)
	}
	return measurements, rows.Err()
}

// UpdateMeasurement overwrites a measurement's fields and returns the
// stored row.
func (r *Repository) UpdateMeasurement(ctx context.Context, m *Measurement) (*Measurement, error) {
	query := `
		UPDATE measurements
		SET category = $2, description = $3, quantity = $4, unit = $5,
		    length = $6, width = $7, height = $8, notes = $9
		WHERE id = $1
		RETURNING ` + measurementColumns

	updated, err := scanMeasurement(r.pool.QueryRow(ctx, query,
		m.ID, m.Category, m.Description, m.Quantity, m.Unit, m.Length, m.Width, m.Height, m.Notes))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(measurementNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update measurement: %w", err)
	}
	return updated, nil
}

// DeleteMeasurement removes a measurement.
func (r *Repository) DeleteMeasurement(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM measurements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete measurement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(measurementNotFoundMsg)
	}
	return nil
}

const photoColumns = `id, measurement_id, object_key, created_at`

// CreatePhoto records an uploaded photo's object key.
func (r *Repository) CreatePhoto(ctx context.Context, measurementID uuid.UUID, objectKey string) (*Photo, error) {
	query := `
		INSERT INTO measurement_photos (measurement_id, object_key)
		VALUES ($1, $2)
		RETURNING ` + photoColumns

	var p Photo
	err := r.pool.QueryRow(ctx, query, measurementID, objectKey).Scan(
		&p.ID, &p.MeasurementID, &p.ObjectKey, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create photo: %w", err)
	}
	return &p, nil
}

// GetPhoto retrieves a photo record by its id.
func (r *Repository) GetPhoto(ctx context.Context, id uuid.UUID) (*Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM measurement_photos WHERE id = $1`

	var p Photo
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.MeasurementID, &p.ObjectKey, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(photoNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return &p, nil
}

// ListPhotos retrieves a measurement's photo records oldest first.
func (r *Repository) ListPhotos(ctx context.Context, measurementID uuid.UUID) ([]Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM measurement_photos WHERE measurement_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, measurementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	var photos []Photo
	for rows.Next() {
		var p Photo
		if err := rows.Scan(&p.ID, &p.MeasurementID, &p.ObjectKey, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// DeletePhoto removes a photo record.
func (r *Repository) DeletePhoto(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM measurement_photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(photoNotFoundMsg)
	}
	return nil
}
