package service

import (
	"context"
	"strings"
	"time"

	"ausmass_backend/internal/projects/repository"
	"ausmass_backend/internal/projects/transport"
	"ausmass_backend/internal/storage"
	"ausmass_backend/platform/apperr"
	"ausmass_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	defaultProjectStatus   = "offeriert"
	defaultMeasurementUnit = "m2"
	dateLayout             = "2006-01-02"
)

// Service provides project, room, measurement and photo operations. Photos
// is nil when object storage is not configured; the photo endpoints then
// reject with a clear message instead of failing deep in the adapter.
type Service struct {
	repo   *repository.Repository
	photos storage.PhotoStore
	log    *logger.Logger
}

// New creates a new projects service.
func New(repo *repository.Repository, photos storage.PhotoStore, log *logger.Logger) *Service {
	return &Service{repo: repo, photos: photos, log: log}
}

// CreateProject stores a new project.
func (s *Service) CreateProject(ctx context.Context, req transport.CreateProjectRequest) (*transport.ProjectResponse, error) {
	status := req.Status
	if status == "" {
		status = defaultProjectStatus
	}

	appointmentDate, err := parseDate(req.AppointmentDate)
	if err != nil {
		return nil, err
	}

	project := &repository.Project{
		CustomerID:      req.CustomerID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		Address:         strings.TrimSpace(req.Address),
		Status:          status,
		Scope:           req.Scope,
		AppointmentDate: appointmentDate,
		Notes:           req.Notes,
	}

	created, err := s.repo.CreateProject(ctx, project)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(created), nil
}

// GetProject returns one project.
func (s *Service) GetProject(ctx context.Context, id uuid.UUID) (*transport.ProjectResponse, error) {
	project, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

// ListProjects returns projects matching the filter.
func (s *Service) ListProjects(ctx context.Context, filter repository.ProjectFilter) ([]transport.ProjectResponse, error) {
	projects, err := s.repo.ListProjects(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.ProjectResponse, 0, len(projects))
	for i := range projects {
		responses = append(responses, *toProjectResponse(&projects[i]))
	}
	return responses, nil
}

// UpdateProject applies the non-nil fields of the request to a project.
func (s *Service) UpdateProject(ctx context.Context, id uuid.UUID, req transport.UpdateProjectRequest) (*transport.ProjectResponse, error) {
	project, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerID != nil {
		project.CustomerID = req.CustomerID
	}
	if req.CustomerName != nil {
		project.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.Address != nil {
		project.Address = strings.TrimSpace(*req.Address)
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Scope != nil {
		project.Scope = req.Scope
	}
	if req.AppointmentDate != nil {
		date, err := parseDate(req.AppointmentDate)
		if err != nil {
			return nil, err
		}
		project.AppointmentDate = date
	}
	if req.Notes != nil {
		project.Notes = *req.Notes
	}

	updated, err := s.repo.UpdateProject(ctx, project)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(updated), nil
}

// DeleteProject removes a project with its rooms and measurements.
func (s *Service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteProject(ctx, id)
}

// CreateRoom adds a room to a project.
func (s *Service) CreateRoom(ctx context.Context, projectID uuid.UUID, req transport.CreateRoomRequest) (*transport.RoomResponse, error) {
	if _, err := s.repo.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	room := &repository.Room{
		ProjectID: projectID,
		Name:      strings.TrimSpace(req.Name),
	}

	created, err := s.repo.CreateRoom(ctx, room, req.SortOrder)
	if err != nil {
		return nil, err
	}
	return toRoomResponse(created), nil
}

// ListRooms returns a project's rooms in sort order.
func (s *Service) ListRooms(ctx context.Context, projectID uuid.UUID) ([]transport.RoomResponse, error) {
	rooms, err := s.repo.ListRooms(ctx, projectID)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.RoomResponse, 0, len(rooms))
	for i := range rooms {
		responses = append(responses, *toRoomResponse(&rooms[i]))
	}
	return responses, nil
}

// UpdateRoom applies the non-nil fields of the request to a room.
func (s *Service) UpdateRoom(ctx context.Context, id uuid.UUID, req transport.UpdateRoomRequest) (*transport.RoomResponse, error) {
	room, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		room.Name = strings.TrimSpace(*req.Name)
	}
	if req.SortOrder != nil {
		room.SortOrder = *req.SortOrder
	}

	updated, err := s.repo.UpdateRoom(ctx, room)
	if err != nil {
		return nil, err
	}
	return toRoomResponse(updated), nil
}

// DeleteRoom removes a room with its measurements.
func (s *Service) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteRoom(ctx, id)
}

// CreateMeasurement adds a measurement to a room.
func (s *Service) CreateMeasurement(ctx context.Context, roomID uuid.UUID, req transport.CreateMeasurementRequest) (*transport.MeasurementResponse, error) {
	if _, err := s.repo.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}

	unit := req.Unit
	if unit == "" {
		unit = defaultMeasurementUnit
	}

	measurement := &repository.Measurement{
		RoomID:      roomID,
		Category:    strings.TrimSpace(req.Category),
		Description: req.Description,
		Quantity:    req.Quantity,
		Unit:        unit,
		Length:      req.Length,
		Width:       req.Width,
		Height:      req.Height,
		Notes:       req.Notes,
	}

	created, err := s.repo.CreateMeasurement(ctx, measurement)
	if err != nil {
		return nil, err
	}
	return toMeasurementResponse(created), nil
}

// ListMeasurements returns a room's measurements in category order.
func (s *Service) ListMeasurements(ctx context.Context, roomID uuid.UUID) ([]transport.MeasurementResponse, error) {
	measurements, err := s.repo.ListMeasurements(ctx, roomID)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.MeasurementResponse, 0, len(measurements))
	for i := range measurements {
		responses = append(responses, *toMeasurementResponse(&measurements[i]))
	}
	return responses, nil
}

// UpdateMeasurement applies the non-nil fields of the request to a
// measurement.
func (s *Service) UpdateMeasurement(ctx context.Context, id uuid.UUID, req transport.UpdateMeasurementRequest) (*transport.MeasurementResponse, error) {
	measurement, err := s.repo.GetMeasurement(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Category != nil {
		measurement.Category = strings.TrimSpace(*req.Category)
	}
	if req.Description != nil {
		measurement.Description = *req.Description
	}
	if req.Quantity != nil {
		measurement.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		measurement.Unit = *req.Unit
	}
	if req.Length != nil {
		measurement.Length = req.Length
	}
	if req.Width != nil {
		measurement.Width = req.Width
	}
	if req.Height != nil {
		measurement.Height = req.Height
	}
	if req.Notes != nil {
		measurement.Notes = *req.Notes
	}

	updated, err := s.repo.UpdateMeasurement(ctx, measurement)
	if err != nil {
		return nil, err
	}
	return toMeasurementResponse(updated), nil
}

// DeleteMeasurement removes a measurement.
func (s *Service) DeleteMeasurement(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteMeasurement(ctx, id)
}

// PresignPhotoUpload returns a presigned PUT slot for a new photo of the
// given measurement.
func (s *Service) PresignPhotoUpload(ctx context.Context, measurementID uuid.UUID, req transport.PresignPhotoRequest) (*storage.PresignedURL, error) {
	if s.photos == nil {
		return nil, apperr.BadRequest("Fotospeicher ist nicht konfiguriert")
	}
	if _, err := s.repo.GetMeasurement(ctx, measurementID); err != nil {
		return nil, err
	}

	presigned, err := s.photos.PresignUpload(ctx, measurementID.String(), req.FileName, req.ContentType)
	if err != nil {
		return nil, apperr.BadRequest(err.Error())
	}
	return presigned, nil
}

// RecordPhoto persists the object key of a completed upload.
func (s *Service) RecordPhoto(ctx context.Context, measurementID uuid.UUID, req transport.RecordPhotoRequest) (*transport.PhotoResponse, error) {
	if _, err := s.repo.GetMeasurement(ctx, measurementID); err != nil {
		return nil, err
	}

	photo, err := s.repo.CreatePhoto(ctx, measurementID, req.ObjectKey)
	if err != nil {
		return nil, err
	}
	return s.toPhotoResponse(ctx, photo), nil
}

// ListPhotos returns a measurement's photos with presigned download links.
func (s *Service) ListPhotos(ctx context.Context, measurementID uuid.UUID) ([]transport.PhotoResponse, error) {
	photos, err := s.repo.ListPhotos(ctx, measurementID)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.PhotoResponse, 0, len(photos))
	for i := range photos {
		responses = append(responses, *s.toPhotoResponse(ctx, &photos[i]))
	}
	return responses, nil
}

// DeletePhoto removes a photo record and its stored object. Object removal
// is best effort; an orphaned object is preferable to a dangling record.
func (s *Service) DeletePhoto(ctx context.Context, id uuid.UUID) error {
	photo, err := s.repo.GetPhoto(ctx, id)
	if err != nil {
		return err
	}

	if s.photos != nil {
		if err := s.photos.Delete(ctx, photo.ObjectKey); err != nil {
			s.log.Warn("failed to delete photo object", "object_key", photo.ObjectKey, "error", err)
		}
	}
	return s.repo.DeletePhoto(ctx, id)
}

func (s *Service) toPhotoResponse(ctx context.Context, p *repository.Photo) *transport.PhotoResponse {
	resp := &transport.PhotoResponse{
		ID:            p.ID,
		MeasurementID: p.MeasurementID,
		ObjectKey:     p.ObjectKey,
		CreatedAt:     p.CreatedAt,
	}

	if s.photos != nil {
		presigned, err := s.photos.PresignDownload(ctx, p.ObjectKey)
		if err != nil {
			s.log.Warn("failed to presign photo download", "object_key", p.ObjectKey, "error", err)
		} else {
			resp.DownloadURL = presigned.URL
		}
	}
	return resp
}

func parseDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(*value))
	if err != nil {
		return nil, apperr.BadRequest("invalid date, expected YYYY-MM-DD")
	}
	return &parsed, nil
}

func toProjectResponse(p *repository.Project) *transport.ProjectResponse {
	var appointmentDate *string
	if p.AppointmentDate != nil {
		formatted := p.AppointmentDate.Format(dateLayout)
		appointmentDate = &formatted
	}

	return &transport.ProjectResponse{
		ID:              p.ID,
		CustomerID:      p.CustomerID,
		CustomerName:    p.CustomerName,
		Address:         p.Address,
		Status:          p.Status,
		Scope:           p.Scope,
		AppointmentDate: appointmentDate,
		Notes:           p.Notes,
		BexioSent:       p.BexioSent,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toRoomResponse(r *repository.Room) *transport.RoomResponse {
	return &transport.RoomResponse{
		ID:        r.ID,
		ProjectID: r.ProjectID,
		Name:      r.Name,
		SortOrder: r.SortOrder,
		CreatedAt: r.CreatedAt,
	}
}

func toMeasurementResponse(m *repository.Measurement) *transport.MeasurementResponse {
	return &transport.MeasurementResponse{
		ID:          m.ID,
		RoomID:      m.RoomID,
		Category:    m.Category,
		Description: m.Description,
		Quantity:    m.Quantity,
		Unit:        m.Unit,
		Length:      m.Length,
		Width:       m.Width,
		Height:      m.Height,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
	}
}
