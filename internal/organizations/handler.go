package organizations

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/eventflow/backend/internal/tenant"
	"github.com/eventflow/backend/pkg/response"
)

// Handler handles organization settings endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates an organizations handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// UpdateRequest is the body for PATCH /organization.
type UpdateRequest struct {
	Name               string          `json:"name"`
	EmailConfiguration json.RawMessage `json:"email_configuration"`
}

// Get handles GET /organization. Returns the caller's organization.
func (h *Handler) Get(c *gin.Context) {
	org, err := h.repo.GetByID(c.Request.Context(), tenant.OrgID(c))
	if err != nil {
		response.NotFound(c, "organization not found")
		return
	}
	response.OK(c, org)
}

// Update handles PATCH /organization. Admin only.
func (h *Handler) Update(c *gin.Context) {
	var body UpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	org, err := h.repo.Update(c.Request.Context(), tenant.OrgID(c), body.Name, body.EmailConfiguration)
	if err != nil {
		response.Internal(c, "failed to update organization")
		return
	}
	response.OK(c, org)
}
