// Package transport defines request and response shapes for the projects
// module: projects, rooms, measurements and measurement photos.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusOffered    ProjectStatus = "offeriert"
	ProjectStatusInProgress ProjectStatus = "ausfuehrung"
	ProjectStatusDone       ProjectStatus = "abgeschlossen"
)

// CreateProjectRequest is the request body for creating a project.
type CreateProjectRequest struct {
	CustomerID      *uuid.UUID `json:"customerId,omitempty"`
	CustomerName    string     `json:"customerName" validate:"required,min=1,max=200"`
	Address         string     `json:"address" validate:"max=500"`
	Status          string     `json:"status" validate:"omitempty,oneof=offeriert ausfuehrung abgeschlossen"`
	Scope           *string    `json:"scope,omitempty" validate:"omitempty,oneof=innen aussen"`
	AppointmentDate *string    `json:"appointmentDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes           string     `json:"notes" validate:"max=2000"`
}

// UpdateProjectRequest is the request body for updating a project. Nil
// fields are left unchanged.
type UpdateProjectRequest struct {
	CustomerID      *uuid.UUID `json:"customerId,omitempty"`
	CustomerName    *string    `json:"customerName,omitempty" validate:"omitempty,min=1,max=200"`
	Address         *string    `json:"address,omitempty" validate:"omitempty,max=500"`
	Status          *string    `json:"status,omitempty" validate:"omitempty,oneof=offeriert ausfuehrung abgeschlossen"`
	Scope           *string    `json:"scope,omitempty" validate:"omitempty,oneof=innen aussen"`
	AppointmentDate *string    `json:"appointmentDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes           *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ProjectResponse is the response body for a project.
type ProjectResponse struct {
	ID              uuid.UUID  `json:"id"`
	CustomerID      *uuid.UUID `json:"customerId,omitempty"`
	CustomerName    string     `json:"customerName"`
	Address         string     `json:"address"`
	Status          string     `json:"status"`
	Scope           *string    `json:"scope,omitempty"`
	AppointmentDate *string    `json:"appointmentDate,omitempty"`
	Notes           string     `json:"notes"`
	BexioSent       bool       `json:"bexioSent"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// CreateRoomRequest is the request body for adding a room to a project.
type CreateRoomRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	SortOrder *int   `json:"sortOrder,omitempty" validate:"omitempty,gte=0"`
}

// UpdateRoomRequest is the request body for updating a room.
type UpdateRoomRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	SortOrder *int    `json:"sortOrder,omitempty" validate:"omitempty,gte=0"`
}

// RoomResponse is the response body for a room.
type RoomResponse struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"projectId"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateMeasurementRequest is the request body for adding a measurement to
// a room.
type CreateMeasurementRequest struct {
	Category    string   `json:"category" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Quantity    float64  `json:"quantity" validate:"gte=0"`
	Unit        string   `json:"unit" validate:"omitempty,oneof=m2 lfm stk pauschal"`
	Length      *float64 `json:"length,omitempty" validate:"omitempty,gte=0"`
	Width       *float64 `json:"width,omitempty" validate:"omitempty,gte=0"`
	Height      *float64 `json:"height,omitempty" validate:"omitempty,gte=0"`
	Notes       string   `json:"notes" validate:"max=2000"`
}

// UpdateMeasurementRequest is the request body for updating a measurement.
type UpdateMeasurementRequest struct {
	Category    *string  `json:"category,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Quantity    *float64 `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Unit        *string  `json:"unit,omitempty" validate:"omitempty,oneof=m2 lfm stk pauschal"`
	Length      *float64 `json:"length,omitempty" validate:"omitempty,gte=0"`
	Width       *float64 `json:"width,omitempty" validate:"omitempty,gte=0"`
	Height      *float64 `json:"height,omitempty" validate:"omitempty,gte=0"`
	Notes       *string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// MeasurementResponse is the response body for a measurement.
type MeasurementResponse struct {
	ID          uuid.UUID `json:"id"`
	RoomID      uuid.UUID `json:"roomId"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	Length      *float64  `json:"length,omitempty"`
	Width       *float64  `json:"width,omitempty"`
	Height      *float64  `json:"height,omitempty"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PresignPhotoRequest asks for a presigned upload slot for a new photo.
type PresignPhotoRequest struct {
	FileName    string `json:"fileName" validate:"required,min=1,max=255"`
	ContentType string `json:"contentType" validate:"required"`
}

// RecordPhotoRequest records an uploaded photo's object key.
type RecordPhotoRequest struct {
	ObjectKey string `json:"objectKey" validate:"required,min=1,max=1024"`
}

// PhotoResponse is the response body for a stored photo. DownloadURL is a
// short-lived presigned link.
type PhotoResponse struct {
	ID            uuid.UUID `json:"id"`
	MeasurementID uuid.UUID `json:"measurementId"`
	ObjectKey     string    `json:"objectKey"`
	DownloadURL   string    `json:"downloadUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
