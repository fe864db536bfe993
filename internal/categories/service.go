package categories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/eventflow/backend/internal/models"
)

// Store is the persistence surface the service needs.
type Store interface {
	List(ctx context.Context, orgID uuid.UUID) ([]models.Category, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, orgID, id uuid.UUID, name string) (*models.Category, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	CreateSubcategory(ctx context.Context, orgID uuid.UUID, s *models.Subcategory) error
	DeleteSubcategory(ctx context.Context, orgID, id uuid.UUID) error
}

// Service wraps the store with ownership checks that must hold regardless of
// how the store is implemented.
type Service struct {
	store Store
}

// NewService creates a categories service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the organization's categories with subcategories attached.
func (s *Service) List(ctx context.Context, orgID uuid.UUID) ([]models.Category, error) {
	return s.store.List(ctx, orgID)
}

// Create inserts a category owned by the organization.
func (s *Service) Create(ctx context.Context, orgID, createdBy uuid.UUID, name string) (*models.Category, error) {
	c := &models.Category{Name: name, OrganizationID: orgID, CreatedBy: createdBy}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update renames a category within the organization.
func (s *Service) Update(ctx context.Context, orgID, id uuid.UUID, name string) (*models.Category, error) {
	return s.store.Update(ctx, orgID, id, name)
}

// Delete removes a category and its subcategories.
func (s *Service) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return s.store.Delete(ctx, orgID, id)
}

// CreateSubcategory attaches a subcategory to a category the organization
// owns. The parent is resolved through the caller's organization first, so a
// category id belonging to another tenant reads as not found rather than
// leaking into their label tree.
func (s *Service) CreateSubcategory(ctx context.Context, orgID, categoryID uuid.UUID, name string) (*models.Subcategory, error) {
	if _, err := s.store.GetByID(ctx, orgID, categoryID); err != nil {
		return nil, fmt.Errorf("parent category: %w", err)
	}
	sub := &models.Subcategory{Name: name, CategoryID: categoryID}
	if err := s.store.CreateSubcategory(ctx, orgID, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// DeleteSubcategory removes a subcategory owned through the organization.
func (s *Service) DeleteSubcategory(ctx context.Context, orgID, id uuid.UUID) error {
	return s.store.DeleteSubcategory(ctx, orgID, id)
}
