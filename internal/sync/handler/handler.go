package handler

import (
	"net/http"

	"ausmass_backend/internal/sync/service"
	"ausmass_backend/internal/sync/transport"
	"ausmass_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the Bexio export.
type Handler struct {
	svc *service.Service
}

// New creates a new sync handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// SyncProject exports the project named in the URL.
func (h *Handler) SyncProject(c *gin.Context) {
	h.run(c, c.Param("id"))
}

// Sync exports the project named in the request body.
func (h *Handler) Sync(c *gin.Context) {
	var req transport.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Projekt-ID fehlt", nil)
		return
	}
	h.run(c, req.ProjectID)
}

func (h *Handler) run(c *gin.Context, projectID string) {
	result, err := h.svc.SyncProject(c.Request.Context(), projectID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
