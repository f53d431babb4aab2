package handler

import (
	"net/http"

	"ausmass_backend/internal/projects/repository"
	"ausmass_backend/internal/projects/service"
	"ausmass_backend/internal/projects/transport"
	"ausmass_backend/platform/httpkit"
	"ausmass_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// Handler handles HTTP requests for projects, rooms, measurements and
// photos.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new projects handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers all project tree routes. Rooms, measurements and
// photos are addressed by their own ids once created, matching how the
// capture UI navigates.
func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.GET("/projects", h.ListProjects)
	v1.POST("/projects", h.CreateProject)
	v1.GET("/projects/:id", h.GetProject)
	v1.PUT("/projects/:id", h.UpdateProject)
	v1.DELETE("/projects/:id", h.DeleteProject)

	v1.GET("/projects/:id/rooms", h.ListRooms)
	v1.POST("/projects/:id/rooms", h.CreateRoom)
	v1.PUT("/rooms/:id", h.UpdateRoom)
	v1.DELETE("/rooms/:id", h.DeleteRoom)

	v1.GET("/rooms/:id/measurements", h.ListMeasurements)
	v1.POST("/rooms/:id/measurements", h.CreateMeasurement)
	v1.PUT("/measurements/:id", h.UpdateMeasurement)
	v1.DELETE("/measurements/:id", h.DeleteMeasurement)

	v1.POST("/measurements/:id/photos/presign", h.PresignPhotoUpload)
	v1.POST("/measurements/:id/photos", h.RecordPhoto)
	v1.GET("/measurements/:id/photos", h.ListPhotos)
	v1.DELETE("/photos/:id", h.DeletePhoto)
}

func (h *Handler) ListProjects(c *gin.Context) {
	filter := repository.ProjectFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	result, err := h.svc.ListProjects(c.Request.Context(), filter)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req transport.CreateProjectRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.CreateProject(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

func (h *Handler) GetProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetProject(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateProjectRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.UpdateProject(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteProject(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) ListRooms(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListRooms(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) CreateRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.CreateRoomRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.CreateRoom(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

func (h *Handler) UpdateRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateRoomRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.UpdateRoom(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteRoom(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) ListMeasurements(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListMeasurements(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) CreateMeasurement(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.CreateMeasurementRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.CreateMeasurement(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

func (h *Handler) UpdateMeasurement(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateMeasurementRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.UpdateMeasurement(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) DeleteMeasurement(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteMeasurement(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) PresignPhotoUpload(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.PresignPhotoRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.PresignPhotoUpload(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) RecordPhoto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.RecordPhotoRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.RecordPhoto(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

func (h *Handler) ListPhotos(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListPhotos(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) DeletePhoto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.DeletePhoto(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}
