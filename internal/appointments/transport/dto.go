// Package transport defines request and response shapes for the
// appointments module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentStatusPlanned   AppointmentStatus = "geplant"
	AppointmentStatusConfirmed AppointmentStatus = "bestaetigt"
	AppointmentStatusDone      AppointmentStatus = "abgeschlossen"
	AppointmentStatusCancelled AppointmentStatus = "abgesagt"
)

// CreateAppointmentRequest is the request body for creating an appointment.
type CreateAppointmentRequest struct {
	CustomerID      *uuid.UUID `json:"customerId,omitempty"`
	ProjectID       *uuid.UUID `json:"projectId,omitempty"`
	Title           string     `json:"title" validate:"required,min=1,max=200"`
	Description     string     `json:"description" validate:"max=2000"`
	AppointmentDate string     `json:"appointmentDate" validate:"required,datetime=2006-01-02"`
	AppointmentTime *string    `json:"appointmentTime,omitempty" validate:"omitempty,datetime=15:04"`
	DurationMinutes *int       `json:"durationMinutes,omitempty" validate:"omitempty,gte=5,lte=1440"`
	Status          string     `json:"status" validate:"omitempty,oneof=geplant bestaetigt abgeschlossen abgesagt"`
}

// UpdateAppointmentRequest is the request body for updating an appointment.
// Nil fields are left unchanged.
type UpdateAppointmentRequest struct {
	CustomerID      *uuid.UUID `json:"customerId,omitempty"`
	ProjectID       *uuid.UUID `json:"projectId,omitempty"`
	Title           *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description     *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	AppointmentDate *string    `json:"appointmentDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AppointmentTime *string    `json:"appointmentTime,omitempty" validate:"omitempty,datetime=15:04"`
	DurationMinutes *int       `json:"durationMinutes,omitempty" validate:"omitempty,gte=5,lte=1440"`
	Status          *string    `json:"status,omitempty" validate:"omitempty,oneof=geplant bestaetigt abgeschlossen abgesagt"`
}

// AppointmentResponse is the response body for an appointment.
type AppointmentResponse struct {
	ID              uuid.UUID  `json:"id"`
	CustomerID      *uuid.UUID `json:"customerId,omitempty"`
	ProjectID       *uuid.UUID `json:"projectId,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	AppointmentDate string     `json:"appointmentDate"`
	AppointmentTime *string    `json:"appointmentTime,omitempty"`
	DurationMinutes int        `json:"durationMinutes"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
