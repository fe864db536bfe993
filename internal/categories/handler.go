package categories

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventflow/backend/internal/middleware"
	"github.com/eventflow/backend/internal/tenant"
	"github.com/eventflow/backend/pkg/response"
)

// Handler handles category HTTP endpoints.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a categories handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// List handles GET /categories.
func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), tenant.OrgID(c))
	if err != nil {
		h.logger.Error("list categories failed", zap.Error(err))
		response.Internal(c, "failed to load categories")
		return
	}
	response.OK(c, list)
}

// NameRequest is the body for category create and rename.
type NameRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create handles POST /categories.
func (h *Handler) Create(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	cat, err := h.service.Create(c.Request.Context(), tenant.OrgID(c), userID, req.Name)
	if err != nil {
		h.logger.Error("create category failed", zap.Error(err))
		response.Internal(c, "failed to create category")
		return
	}
	response.Created(c, cat)
}

// Update handles PATCH /categories/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	cat, err := h.service.Update(c.Request.Context(), tenant.OrgID(c), id, req.Name)
	if err != nil {
		response.NotFound(c, "category not found")
		return
	}
	response.OK(c, cat)
}

// Delete handles DELETE /categories/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}
	if err := h.service.Delete(c.Request.Context(), tenant.OrgID(c), id); err != nil {
		response.NotFound(c, "category not found")
		return
	}
	response.NoContent(c)
}

// CreateSubcategory handles POST /categories/:id/subcategories.
func (h *Handler) CreateSubcategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	sub, err := h.service.CreateSubcategory(c.Request.Context(), tenant.OrgID(c), categoryID, req.Name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		h.logger.Error("create subcategory failed", zap.Error(err))
		response.Internal(c, "failed to create subcategory")
		return
	}
	response.Created(c, sub)
}

// DeleteSubcategory handles DELETE /subcategories/:id.
func (h *Handler) DeleteSubcategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid subcategory id")
		return
	}
	if err := h.service.DeleteSubcategory(c.Request.Context(), tenant.OrgID(c), id); err != nil {
		response.NotFound(c, "subcategory not found")
		return
	}
	response.NoContent(c)
}
