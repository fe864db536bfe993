package attendees

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/pkg/qr"
)

// ErrNotFound is returned when no attendee matches a lookup within the
// caller's organization.
var ErrNotFound = errors.New("attendee not found")

// Store is the persistence surface the service needs. Implemented by
// Repository; tests substitute an in-memory fake.
type Store interface {
	Insert(ctx context.Context, a *models.Attendee) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Attendee, error)
	GetByQRCode(ctx context.Context, orgID uuid.UUID, code string) (*models.Attendee, error)
	CheckIn(ctx context.Context, orgID, id uuid.UUID, at time.Time) (*models.Attendee, error)
}

// CreateParams are the caller-supplied fields for a new attendee. The qr_code
// is never caller-supplied; the service issues it.
type CreateParams struct {
	Name           string          `json:"name" validate:"required"`
	Email          string          `json:"email" validate:"required,email"`
	Phone          string          `json:"phone"`
	EventID        *uuid.UUID      `json:"event_id"`
	CategoryIDs    []uuid.UUID     `json:"category_ids"`
	SubcategoryIDs []uuid.UUID     `json:"subcategory_ids"`
	ProfileData    json.RawMessage `json:"profile_data"`
}

// ImportResult is the per-row outcome of a bulk import.
type ImportResult struct {
	Success  bool             `json:"success"`
	Attendee *models.Attendee `json:"attendee,omitempty"`
	Error    string           `json:"error,omitempty"`
	Input    CreateParams     `json:"input"`
}

// Service owns attendee creation (QR issuance), check-in resolution and bulk
// import on top of a Store.
type Service struct {
	store    Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates an attendee service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, validate: validator.New(), logger: logger}
}

// Create validates the input, issues a unique QR token, renders its image and
// persists the attendee in one write. A render failure aborts before anything
// is stored, so the caller can retry without producing a duplicate. The
// rendered image is returned alongside the attendee but never persisted.
func (s *Service) Create(ctx context.Context, orgID uuid.UUID, p CreateParams) (*models.Attendee, string, error) {
	if err := s.validate.Struct(p); err != nil {
		return nil, "", fmt.Errorf("invalid attendee: %w", err)
	}

	token, err := qr.NewAttendeeToken()
	if err != nil {
		return nil, "", fmt.Errorf("issue qr token: %w", err)
	}
	image, err := qr.DataURL(token)
	if err != nil {
		return nil, "", fmt.Errorf("render qr image: %w", err)
	}

	a := &models.Attendee{
		Name:           p.Name,
		Email:          p.Email,
		Phone:          p.Phone,
		EventID:        p.EventID,
		OrganizationID: orgID,
		CategoryIDs:    p.CategoryIDs,
		SubcategoryIDs: p.SubcategoryIDs,
		Status:         models.AttendeeStatusRegistered,
		QRCode:         token,
		ProfileData:    p.ProfileData,
	}
	if err := s.store.Insert(ctx, a); err != nil {
		return nil, "", err
	}
	return a, image, nil
}

// CheckInByQRCode resolves a scanned code to an attendee and transitions it to
// checked_in, stamping the current time. The transition is unconditional: a
// re-scan or a cancelled attendee checks in again without error and simply
// overwrites checked_in_at.
func (s *Service) CheckInByQRCode(ctx context.Context, orgID uuid.UUID, code string) (*models.Attendee, error) {
	a, err := s.store.GetByQRCode(ctx, orgID, code)
	if err != nil {
		return nil, err
	}
	return s.store.CheckIn(ctx, orgID, a.ID, time.Now().UTC())
}

// QRCodeImage re-renders the attendee's stored token as a data URL. The image
// is never cached.
func (s *Service) QRCodeImage(ctx context.Context, orgID, id uuid.UUID) (string, error) {
	a, err := s.store.GetByID(ctx, orgID, id)
	if err != nil {
		return "", err
	}
	return qr.DataURL(a.QRCode)
}

// ProgressFunc reports bulk import progress after each completed row.
type ProgressFunc func(current, total int)

// BulkImport creates each row sequentially, best effort: a failed row is
// recorded and the batch continues. No rollback; rows that succeeded stay
// persisted. The result list preserves input order.
func (s *Service) BulkImport(ctx context.Context, orgID uuid.UUID, rows []CreateParams, onProgress ProgressFunc) []ImportResult {
	results := make([]ImportResult, 0, len(rows))
	for i, row := range rows {
		a, _, err := s.Create(ctx, orgID, row)
		if err != nil {
			s.logger.Warn("bulk import row failed", zap.Int("row", i), zap.Error(err))
			results = append(results, ImportResult{Success: false, Error: err.Error(), Input: row})
			continue
		}
		results = append(results, ImportResult{Success: true, Attendee: a, Input: row})
		if onProgress != nil {
			onProgress(i+1, len(rows))
		}
	}
	return results
}
