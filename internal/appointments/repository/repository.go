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

const appointmentNotFoundMsg = "Termin nicht gefunden"

// Appointment represents the appointment database model. AppointmentTime is
// a wall-clock "HH:MM" string or nil for all-day appointments.
type Appointment struct {
	ID              uuid.UUID
	CustomerID      *uuid.UUID
	ProjectID       *uuid.UUID
	Title           string
	Description     string
	AppointmentDate time.Time
	AppointmentTime *string
	DurationMinutes int
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ReminderInfo joins the appointment with its customer's contact data for
// the reminder mail.
type ReminderInfo struct {
	Appointment   Appointment
	CustomerName  string
	CustomerEmail string
	Address       string
}

// ListFilter narrows the appointment listing.
type ListFilter struct {
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// Repository provides database operations for appointments.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new appointments repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const appointmentColumns = `id, customer_id, project_id, title, description, appointment_date,
	to_char(appointment_time, 'HH24:MI'), duration_minutes, status, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.CustomerID, &a.ProjectID, &a.Title, &a.Description,
		&a.AppointmentDate, &a.AppointmentTime, &a.DurationMinutes, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new appointment and returns the stored row.
func (r *Repository) Create(ctx context.Context, a *Appointment) (*Appointment, error) {
	query := `
		INSERT INTO appointments (customer_id, project_id, title, description, appointment_date, appointment_time, duration_minutes, status)
		VALUES ($1, $2, $3, $4, $5, $6::time, $7, $8)
		RETURNING ` + appointmentColumns

	created, err := scanAppointment(r.pool.QueryRow(ctx, query,
		a.CustomerID, a.ProjectID, a.Title, a.Description, a.AppointmentDate,
		a.AppointmentTime, a.DurationMinutes, a.Status))
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return created, nil
}

// GetByID retrieves an appointment by its id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	a, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(appointmentNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return a, nil
}

// List retrieves appointments by ascending date, optionally filtered by
// status and date range.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	var (
		conditions []string
		args       []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("appointment_date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("appointment_date <= $%d", len(args)))
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY appointment_date ASC, appointment_time ASC NULLS FIRST"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, *a)
	}
	return appointments, rows.Err()
}

// Update overwrites an appointment's fields and returns the stored row.
func (r *Repository) Update(ctx context.Context, a *Appointment) (*Appointment, error) {
	query := `
		UPDATE appointments
		SET customer_id = $2, project_id = $3, title = $4, description = $5,
		    appointment_date = $6, appointment_time = $7::time, duration_minutes = $8,
		    status = $9, updated_at = now()
		WHERE id = $1
		RETURNING ` + appointmentColumns

	updated, err := scanAppointment(r.pool.QueryRow(ctx, query,
		a.ID, a.CustomerID, a.ProjectID, a.Title, a.Description, a.AppointmentDate,
		a.AppointmentTime, a.DurationMinutes, a.Status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(appointmentNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return updated, nil
}

// Delete removes an appointment.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(appointmentNotFoundMsg)
	}
	return nil
}

// GetReminderInfo loads an appointment together with its customer's contact
// data for the reminder mail.
func (r *Repository) GetReminderInfo(ctx context.Context, id uuid.UUID) (*ReminderInfo, error) {
	query := `
		SELECT a.id, a.customer_id, a.project_id, a.title, a.description, a.appointment_date,
		       to_char(a.appointment_time, 'HH24:MI'), a.duration_minutes, a.status, a.created_at, a.updated_at,
		       COALESCE(c.name, ''), COALESCE(c.email, ''), COALESCE(c.address, '')
		FROM appointments a
		LEFT JOIN customers c ON c.id = a.customer_id
		WHERE a.id = $1`

	var info ReminderInfo
	a := &info.Appointment
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.CustomerID, &a.ProjectID, &a.Title, &a.Description, &a.AppointmentDate,
		&a.AppointmentTime, &a.DurationMinutes, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		&info.CustomerName, &info.CustomerEmail, &info.Address,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(appointmentNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder info: %w", err)
	}
	return &info, nil
}
