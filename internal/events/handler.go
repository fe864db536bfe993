package events

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventflow/backend/internal/middleware"
	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/internal/tenant"
	"github.com/eventflow/backend/pkg/qr"
	"github.com/eventflow/backend/pkg/response"
	"github.com/eventflow/backend/pkg/storage"
)

// Handler handles event HTTP endpoints.
type Handler struct {
	repo    *Repository
	s3      *storage.S3
	baseURL string
	logger  *zap.Logger
}

// NewHandler creates an events handler. s3 may be nil when banner uploads are
// not configured.
func NewHandler(repo *Repository, s3 *storage.S3, baseURL string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, s3: s3, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// CreateRequest is the body for POST /events.
type CreateRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date" binding:"required"`
	StartTime   string          `json:"start_time" binding:"required"`
	EndTime     string          `json:"end_time" binding:"required"`
	Location    string          `json:"location" binding:"required"`
	Capacity    *int            `json:"capacity"`
	Status      string          `json:"status"`
	FormFields  json.RawMessage `json:"form_fields"`
}

// UpdateRequest is the body for PATCH /events/:id. Absent fields keep their
// stored value.
type UpdateRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Date        *time.Time      `json:"date"`
	StartTime   *string         `json:"start_time"`
	EndTime     *string         `json:"end_time"`
	Location    *string         `json:"location"`
	Capacity    *int            `json:"capacity"`
	Status      *string         `json:"status"`
	FormFields  json.RawMessage `json:"form_fields"`
}

func validStatus(s string) bool {
	switch models.EventStatus(s) {
	case models.EventStatusDraft, models.EventStatusPublished, models.EventStatusCompleted:
		return true
	}
	return false
}

// Create handles POST /events. The public URL id and its QR image are
// produced before the insert so a render failure leaves nothing behind.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	status := models.EventStatusDraft
	if req.Status != "" {
		if !validStatus(req.Status) {
			response.BadRequest(c, "invalid status")
			return
		}
		status = models.EventStatus(req.Status)
	}

	publicID := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	qrImage, err := qr.DataURL(h.baseURL + "/e/" + publicID)
	if err != nil {
		h.logger.Error("render event qr failed", zap.Error(err))
		response.Internal(c, "failed to generate event QR code")
		return
	}

	e := &models.Event{
		Title:          req.Title,
		Description:    req.Description,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Location:       req.Location,
		Capacity:       req.Capacity,
		Status:         status,
		OrganizationID: tenant.OrgID(c),
		CreatedBy:      c.MustGet(middleware.ContextUserID).(uuid.UUID),
		QRCodeImage:    qrImage,
		PublicURLID:    publicID,
		FormFields:     req.FormFields,
	}
	if err := h.repo.Create(c.Request.Context(), e); err != nil {
		h.logger.Error("create event failed", zap.Error(err))
		response.Internal(c, "failed to create event")
		return
	}
	response.Created(c, e)
}

// List handles GET /events.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context(), tenant.OrgID(c))
	if err != nil {
		response.Internal(c, "failed to load events")
		return
	}
	response.OK(c, list)
}

// GetStats handles GET /events/stats.
func (h *Handler) GetStats(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context(), tenant.OrgID(c))
	if err != nil {
		response.Internal(c, "failed to load events")
		return
	}
	response.OK(c, ComputeStats(list))
}

// GetByID handles GET /events/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), tenant.OrgID(c), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	response.OK(c, e)
}

// Update handles PATCH /events/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Status != nil && !validStatus(*req.Status) {
		response.BadRequest(c, "invalid status")
		return
	}
	e, err := h.repo.Update(c.Request.Context(), tenant.OrgID(c), id, UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Status:      req.Status,
		FormFields:  req.FormFields,
	})
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	response.OK(c, e)
}

// Delete handles DELETE /events/:id. Hard delete; attendees keep their
// dangling event reference.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), tenant.OrgID(c), id); err != nil {
		response.NotFound(c, "event not found")
		return
	}
	response.NoContent(c)
}

// UploadBanner handles POST /events/:id/banner (multipart form, field "file").
func (h *Handler) UploadBanner(c *gin.Context) {
	if h.s3 == nil {
		response.Internal(c, "banner storage not configured")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), tenant.OrgID(c), id); err != nil {
		response.NotFound(c, "event not found")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file required")
		return
	}
	if fileHeader.Size > storage.MaxBannerFileSize {
		response.BadRequest(c, "file too large (max 5MB)")
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !storage.ValidateBannerFileType(contentType, fileHeader.Filename) {
		response.BadRequest(c, "unsupported file type")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Internal(c, "failed to read file")
		return
	}
	defer file.Close()

	key := storage.BannerKey(id.String(), fileHeader.Filename)
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(fileHeader.Filename)
	}
	url, err := h.s3.Upload(c.Request.Context(), h.s3.BannersBucket(), key, contentType, file, fileHeader.Size)
	if err != nil {
		h.logger.Error("banner upload failed", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "failed to upload banner")
		return
	}

	e, err := h.repo.UpdateBanner(c.Request.Context(), tenant.OrgID(c), id, url)
	if err != nil {
		response.Internal(c, "failed to save banner")
		return
	}
	response.OK(c, e)
}

// PublicEvent is the reduced shape served on the unauthenticated public page.
type PublicEvent struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Location    string    `json:"location"`
	Banner      string    `json:"banner,omitempty"`
	Status      string    `json:"status"`
}

// GetPublic handles GET /public/events/:publicId. Only published events are
// visible.
func (h *Handler) GetPublic(c *gin.Context) {
	e, err := h.repo.GetByPublicURLID(c.Request.Context(), c.Param("publicId"))
	if err != nil || e.Status != models.EventStatusPublished {
		response.NotFound(c, "event not found")
		return
	}
	response.OK(c, PublicEvent{
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Location:    e.Location,
		Banner:      e.Banner,
		Status:      string(e.Status),
	})
}
