package team

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/internal/tenant"
	"github.com/eventflow/backend/pkg/response"
)

// Handler handles team HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a team handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// InviteRequest is the body for POST /team/invite.
type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
	Role  string `json:"role"`
}

// List handles GET /team. Returns members and pending invitations.
func (h *Handler) List(c *gin.Context) {
	members, err := h.repo.ListByOrganization(c.Request.Context(), tenant.OrgID(c))
	if err != nil {
		response.Internal(c, "failed to load team members")
		return
	}
	response.OK(c, members)
}

// Invite handles POST /team/invite. Admin only.
func (h *Handler) Invite(c *gin.Context) {
	var body InviteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	role := models.RoleStaff
	switch body.Role {
	case "", "staff":
	case "admin":
		role = models.RoleAdmin
	default:
		response.BadRequest(c, "invalid role")
		return
	}
	member, err := h.repo.Invite(c.Request.Context(), tenant.OrgID(c), body.Email, body.Name, role)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			response.Conflict(c, "a user with this email already exists")
			return
		}
		response.Internal(c, "failed to create invitation")
		return
	}
	response.Created(c, member)
}

// Remove handles DELETE /team/:id. Admin only.
func (h *Handler) Remove(c *gin.Context) {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid member id")
		return
	}
	if err := h.repo.Remove(c.Request.Context(), tenant.OrgID(c), memberID); err != nil {
		response.NotFound(c, "member not found")
		return
	}
	response.NoContent(c)
}
