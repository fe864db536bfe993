package campaigns

import (
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventflow/backend/internal/middleware"
	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/internal/tenant"
	"github.com/eventflow/backend/pkg/queue"
	"github.com/eventflow/backend/pkg/response"
)

// Handler handles campaign HTTP endpoints. Sending is asynchronous: the
// handler only flips status and enqueues; the worker delivers.
type Handler struct {
	repo   *Repository
	queue  *queue.Queue
	logger *zap.Logger
}

// NewHandler creates a campaigns handler.
func NewHandler(repo *Repository, q *queue.Queue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, queue: q, logger: logger}
}

// List handles GET /campaigns.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context(), tenant.OrgID(c))
	if err != nil {
		h.logger.Error("list campaigns failed", zap.Error(err))
		response.Internal(c, "failed to load campaigns")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /campaigns/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid campaign id")
		return
	}
	campaign, err := h.repo.GetByID(c.Request.Context(), tenant.OrgID(c), id)
	if err != nil {
		response.NotFound(c, "campaign not found")
		return
	}
	response.OK(c, campaign)
}

// CreateRequest is the body for POST /campaigns.
type CreateRequest struct {
	Title           string          `json:"title" binding:"required"`
	Subject         string          `json:"subject" binding:"required"`
	Content         string          `json:"content" binding:"required"`
	Description     string          `json:"description"`
	LinkedEventID   *uuid.UUID      `json:"linked_event_id"`
	RecipientFilter json.RawMessage `json:"recipient_filter"`
	ScheduledAt     *time.Time      `json:"scheduled_at"`
}

// Create handles POST /campaigns. A scheduled_at in the body lands the
// campaign as scheduled, otherwise as draft.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	status := models.CampaignStatusDraft
	if req.ScheduledAt != nil {
		status = models.CampaignStatusScheduled
	}
	campaign := &models.EmailCampaign{
		OrganizationID:  tenant.OrgID(c),
		Title:           req.Title,
		Subject:         req.Subject,
		Content:         req.Content,
		Description:     req.Description,
		LinkedEventID:   req.LinkedEventID,
		RecipientFilter: req.RecipientFilter,
		Status:          status,
		ScheduledAt:     req.ScheduledAt,
		CreatedBy:       c.MustGet(middleware.ContextUserID).(uuid.UUID),
	}
	if err := h.repo.Create(c.Request.Context(), campaign); err != nil {
		h.logger.Error("create campaign failed", zap.Error(err))
		response.Internal(c, "failed to create campaign")
		return
	}
	response.Created(c, campaign)
}

// UpdateRequest is the body for PATCH /campaigns/:id.
type UpdateRequest struct {
	Title           *string         `json:"title"`
	Subject         *string         `json:"subject"`
	Content         *string         `json:"content"`
	Description     *string         `json:"description"`
	LinkedEventID   *uuid.UUID      `json:"linked_event_id"`
	RecipientFilter json.RawMessage `json:"recipient_filter"`
	ScheduledAt     *time.Time      `json:"scheduled_at"`
}

// Update handles PATCH /campaigns/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid campaign id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	campaign, err := h.repo.Update(c.Request.Context(), tenant.OrgID(c), id, UpdateParams{
		Title:           req.Title,
		Subject:         req.Subject,
		Content:         req.Content,
		Description:     req.Description,
		LinkedEventID:   req.LinkedEventID,
		RecipientFilter: req.RecipientFilter,
		ScheduledAt:     req.ScheduledAt,
	})
	if err != nil {
		response.NotFound(c, "campaign not found or no longer editable")
		return
	}
	response.OK(c, campaign)
}

// Delete handles DELETE /campaigns/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid campaign id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), tenant.OrgID(c), id); err != nil {
		response.NotFound(c, "campaign not found")
		return
	}
	response.NoContent(c)
}

// SendRequest is the body for POST /campaigns/:id/send. With test=true the
// campaign stays untouched and a single message goes to test_recipient.
type SendRequest struct {
	Test          bool   `json:"test"`
	TestRecipient string `json:"test_recipient"`
}

// Send handles POST /campaigns/:id/send.
func (h *Handler) Send(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid campaign id")
		return
	}
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Test && req.TestRecipient == "" {
		response.BadRequest(c, "test_recipient required for a test send")
		return
	}
	orgID := tenant.OrgID(c)

	if _, err := h.repo.GetByID(c.Request.Context(), orgID, id); err != nil {
		response.NotFound(c, "campaign not found")
		return
	}
	if !req.Test {
		if err := h.repo.MarkSending(c.Request.Context(), orgID, id); err != nil {
			response.Conflict(c, "campaign is already sending or finished")
			return
		}
	}
	if err := h.queue.EnqueueCampaignSend(c.Request.Context(), queue.CampaignSendPayload{
		CampaignID:     id,
		OrganizationID: orgID,
		IsTest:         req.Test,
		TestRecipient:  req.TestRecipient,
	}); err != nil {
		h.logger.Error("enqueue campaign send failed", zap.Error(err), zap.String("campaign_id", id.String()))
		response.Internal(c, "failed to queue campaign")
		return
	}
	response.OK(c, gin.H{"queued": true, "test": req.Test})
}
