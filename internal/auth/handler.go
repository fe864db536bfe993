package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/pkg/response"
	"github.com/eventflow/backend/pkg/utils"
)

// SignupRequest is the body for POST /auth/signup. OrganizationName is ignored
// when the email matches a pending invitation.
type SignupRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=6"`
	Name             string `json:"name" binding:"required"`
	OrganizationName string `json:"organization_name"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the auth response with JWT.
type TokenResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	repo   *Repository
	jwt    *JWTService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, jwt *JWTService, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, jwt: jwt, logger: logger}
}

// Signup handles POST /auth/signup. A fresh signup creates an organization
// with the user as its admin owner. A signup whose email matches a pending
// team invitation claims that invitation instead, joining the inviter's
// organization with the invited role.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	var user *models.User
	existing, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	switch {
	case err == nil && !existing.IsInvitation:
		response.Conflict(c, "email already registered")
		return
	case err == nil:
		user, err = h.repo.ClaimInvitation(c.Request.Context(), existing.ID, hash, req.Name)
		if err != nil {
			h.logger.Error("claim invitation failed", zap.Error(err), zap.String("email", req.Email))
			response.Internal(c, "failed to complete signup")
			return
		}
	default:
		orgName := req.OrganizationName
		if orgName == "" {
			orgName = req.Name
		}
		user, err = h.repo.CreateWithOrganization(c.Request.Context(), req.Email, hash, req.Name, orgName)
		if err != nil {
			h.logger.Error("signup failed", zap.Error(err), zap.String("email", req.Email))
			response.Internal(c, "failed to create account")
			return
		}
	}

	token, err := h.jwt.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	response.Created(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || user.IsInvitation {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	token, err := h.jwt.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	response.OK(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// Me handles GET /me. Returns the authenticated user's profile. The "user_id"
// context key is set by the JWT middleware.
func (h *Handler) Me(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	response.OK(c, user.ToPublic())
}
