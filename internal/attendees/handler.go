package attendees

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/internal/tenant"
	"github.com/eventflow/backend/pkg/response"
)

// Handler handles attendee HTTP endpoints.
type Handler struct {
	repo    *Repository
	service *Service
	logger  *zap.Logger
}

// NewHandler creates an attendees handler.
func NewHandler(repo *Repository, service *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, service: service, logger: logger}
}

// List handles GET /attendees. An optional event_id query param narrows the
// list to one event.
func (h *Handler) List(c *gin.Context) {
	var eventID *uuid.UUID
	if raw := c.Query("event_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid event_id")
			return
		}
		eventID = &id
	}
	list, err := h.repo.List(c.Request.Context(), tenant.OrgID(c), eventID)
	if err != nil {
		h.logger.Error("list attendees failed", zap.Error(err))
		response.Internal(c, "failed to load attendees")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /attendees/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid attendee id")
		return
	}
	a, err := h.repo.GetByID(c.Request.Context(), tenant.OrgID(c), id)
	if err != nil {
		response.NotFound(c, "attendee not found")
		return
	}
	response.OK(c, a)
}

// Create handles POST /attendees. The response carries the attendee plus the
// freshly rendered QR image so the client can show it immediately.
func (h *Handler) Create(c *gin.Context) {
	var req CreateParams
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	a, image, err := h.service.Create(c.Request.Context(), tenant.OrgID(c), req)
	if err != nil {
		h.logger.Error("create attendee failed", zap.Error(err))
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, gin.H{"attendee": a, "qr_code_image": image})
}

// UpdateRequest is the body for PATCH /attendees/:id. Absent fields keep
// their stored value; the qr_code cannot be changed.
type UpdateRequest struct {
	Name           *string         `json:"name"`
	Email          *string         `json:"email"`
	Phone          *string         `json:"phone"`
	EventID        *uuid.UUID      `json:"event_id"`
	CategoryIDs    []uuid.UUID     `json:"category_ids"`
	SubcategoryIDs []uuid.UUID     `json:"subcategory_ids"`
	Status         *string         `json:"status"`
	ProfileData    json.RawMessage `json:"profile_data"`
}

func validAttendeeStatus(s string) bool {
	switch models.AttendeeStatus(s) {
	case models.AttendeeStatusRegistered, models.AttendeeStatusCheckedIn, models.AttendeeStatusCancelled:
		return true
	}
	return false
}

// Update handles PATCH /attendees/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid attendee id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Status != nil && !validAttendeeStatus(*req.Status) {
		response.BadRequest(c, "invalid status")
		return
	}
	a, err := h.repo.Update(c.Request.Context(), tenant.OrgID(c), id, UpdateParams{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		EventID:        req.EventID,
		CategoryIDs:    req.CategoryIDs,
		SubcategoryIDs: req.SubcategoryIDs,
		Status:         req.Status,
		ProfileData:    req.ProfileData,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "attendee not found")
			return
		}
		h.logger.Error("update attendee failed", zap.Error(err))
		response.Internal(c, "failed to update attendee")
		return
	}
	response.OK(c, a)
}

// Delete handles DELETE /attendees/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid attendee id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), tenant.OrgID(c), id); err != nil {
		response.NotFound(c, "attendee not found")
		return
	}
	response.NoContent(c)
}

// CheckInRequest is the body for POST /checkin.
type CheckInRequest struct {
	Code string `json:"code" binding:"required"`
}

// CheckIn handles POST /checkin. An unknown code is the only failure mode;
// any known attendee transitions to checked_in.
func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	a, err := h.service.CheckInByQRCode(c.Request.Context(), tenant.OrgID(c), req.Code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "no attendee matches this code")
			return
		}
		h.logger.Error("check-in failed", zap.Error(err))
		response.Internal(c, "check-in failed")
		return
	}
	response.OK(c, a)
}

// BulkImportRequest is the body for POST /attendees/import.
type BulkImportRequest struct {
	Attendees []CreateParams `json:"attendees" binding:"required"`
}

// BulkImport handles POST /attendees/import. Each row is attempted in order;
// failures are reported per row and never abort the batch.
func (h *Handler) BulkImport(c *gin.Context) {
	var req BulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if len(req.Attendees) == 0 {
		response.BadRequest(c, "no attendees to import")
		return
	}
	results := h.service.BulkImport(c.Request.Context(), tenant.OrgID(c), req.Attendees, nil)
	imported := 0
	for _, r := range results {
		if r.Success {
			imported++
		}
	}
	response.OK(c, gin.H{
		"imported": imported,
		"failed":   len(results) - imported,
		"results":  results,
	})
}

// GetQRCode handles GET /attendees/:id/qrcode, re-rendering the stored token.
func (h *Handler) GetQRCode(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid attendee id")
		return
	}
	image, err := h.service.QRCodeImage(c.Request.Context(), tenant.OrgID(c), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "attendee not found")
			return
		}
		h.logger.Error("render attendee qr failed", zap.Error(err))
		response.Internal(c, "failed to render QR code")
		return
	}
	response.OK(c, gin.H{"qr_code_image": image})
}
