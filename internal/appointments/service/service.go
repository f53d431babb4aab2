package service

import (
	"context"
	"strings"
	"time"

	"ausmass_backend/internal/appointments/repository"
	"ausmass_backend/internal/appointments/transport"
	"ausmass_backend/internal/scheduler"
	"ausmass_backend/platform/apperr"
	"ausmass_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	defaultStatus   = "geplant"
	defaultDuration = 60
	dateLayout      = "2006-01-02"
	timeLayout      = "15:04"
)

// Service provides appointment management. Reminders are scheduled best
// effort: when redis is not configured or enqueueing fails, the appointment
// is still saved.
type Service struct {
	repo      *repository.Repository
	reminders scheduler.ReminderScheduler
	leadTime  time.Duration
	log       *logger.Logger
}

// New creates a new appointments service. reminders may be nil.
func New(repo *repository.Repository, reminders scheduler.ReminderScheduler, leadTime time.Duration, log *logger.Logger) *Service {
	return &Service{repo: repo, reminders: reminders, leadTime: leadTime, log: log}
}

// Create stores a new appointment and schedules its reminder.
func (s *Service) Create(ctx context.Context, req transport.CreateAppointmentRequest) (*transport.AppointmentResponse, error) {
	date, err := time.Parse(dateLayout, req.AppointmentDate)
	if err != nil {
		return nil, apperr.BadRequest("invalid date, expected YYYY-MM-DD")
	}

	status := req.Status
	if status == "" {
		status = defaultStatus
	}
	duration := defaultDuration
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}

	appointment := &repository.Appointment{
		CustomerID:      req.CustomerID,
		ProjectID:       req.ProjectID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		AppointmentDate: date,
		AppointmentTime: req.AppointmentTime,
		DurationMinutes: duration,
		Status:          status,
	}

	created, err := s.repo.Create(ctx, appointment)
	if err != nil {
		return nil, err
	}

	s.scheduleReminder(ctx, created)
	return toResponse(created), nil
}

// GetByID returns one appointment.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.AppointmentResponse, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(appointment), nil
}

// List returns appointments matching the filter.
func (s *Service) List(ctx context.Context, filter repository.ListFilter) ([]transport.AppointmentResponse, error) {
	appointments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		responses = append(responses, *toResponse(&appointments[i]))
	}
	return responses, nil
}

// Update applies the non-nil fields of the request. Rescheduling to a new
// date or time schedules a fresh reminder; the stale one is dropped by the
// worker because it re-checks the stored date.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateAppointmentRequest) (*transport.AppointmentResponse, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rescheduled := false
	if req.CustomerID != nil {
		appointment.CustomerID = req.CustomerID
	}
	if req.ProjectID != nil {
		appointment.ProjectID = req.ProjectID
	}
	if req.Title != nil {
		appointment.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		appointment.Description = *req.Description
	}
	if req.AppointmentDate != nil {
		date, err := time.Parse(dateLayout, *req.AppointmentDate)
		if err != nil {
			return nil, apperr.BadRequest("invalid date, expected YYYY-MM-DD")
		}
		appointment.AppointmentDate = date
		rescheduled = true
	}
	if req.AppointmentTime != nil {
		appointment.AppointmentTime = req.AppointmentTime
		rescheduled = true
	}
	if req.DurationMinutes != nil {
		appointment.DurationMinutes = *req.DurationMinutes
	}
	if req.Status != nil {
		appointment.Status = *req.Status
	}

	updated, err := s.repo.Update(ctx, appointment)
	if err != nil {
		return nil, err
	}

	if rescheduled {
		s.scheduleReminder(ctx, updated)
	}
	return toResponse(updated), nil
}

// Delete removes an appointment.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// scheduleReminder enqueues a reminder ahead of the appointment start. Past
// or cancelled appointments get none.
func (s *Service) scheduleReminder(ctx context.Context, a *repository.Appointment) {
	if s.reminders == nil || a.Status == string(transport.AppointmentStatusCancelled) {
		return
	}

	runAt := startTime(a).Add(-s.leadTime)
	if !runAt.After(time.Now()) {
		return
	}

	payload := scheduler.AppointmentReminderPayload{AppointmentID: a.ID.String()}
	if err := s.reminders.ScheduleAppointmentReminder(ctx, payload, runAt); err != nil {
		s.log.Warn("failed to schedule appointment reminder", "appointment_id", a.ID, "error", err)
	}
}

// startTime combines the appointment date with its wall-clock time, falling
// back to 09:00 for all-day appointments.
func startTime(a *repository.Appointment) time.Time {
	hour, minute := 9, 0
	if a.AppointmentTime != nil {
		if parsed, err := time.Parse(timeLayout, *a.AppointmentTime); err == nil {
			hour, minute = parsed.Hour(), parsed.Minute()
		}
	}
	d := a.AppointmentDate
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.Local)
}

func toResponse(a *repository.Appointment) *transport.AppointmentResponse {
	return &transport.AppointmentResponse{
		ID:              a.ID,
		CustomerID:      a.CustomerID,
		ProjectID:       a.ProjectID,
		Title:           a.Title,
		Description:     a.Description,
		AppointmentDate: a.AppointmentDate.Format(dateLayout),
		AppointmentTime: a.AppointmentTime,
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
