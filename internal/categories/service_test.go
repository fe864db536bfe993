package categories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/eventflow/backend/internal/models"
)

type memStore struct {
	categories    map[uuid.UUID]*models.Category
	subcategories map[uuid.UUID]*models.Subcategory
}

func newMemStore() *memStore {
	return &memStore{
		categories:    map[uuid.UUID]*models.Category{},
		subcategories: map[uuid.UUID]*models.Subcategory{},
	}
}

func (m *memStore) List(_ context.Context, orgID uuid.UUID) ([]models.Category, error) {
	var list []models.Category
	for _, c := range m.categories {
		if c.OrganizationID == orgID {
			list = append(list, *c)
		}
	}
	return list, nil
}

func (m *memStore) GetByID(_ context.Context, orgID, id uuid.UUID) (*models.Category, error) {
	c, ok := m.categories[id]
	if !ok || c.OrganizationID != orgID {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) Create(_ context.Context, c *models.Category) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *memStore) Update(_ context.Context, orgID, id uuid.UUID, name string) (*models.Category, error) {
	c, ok := m.categories[id]
	if !ok || c.OrganizationID != orgID {
		return nil, ErrNotFound
	}
	c.Name = name
	cp := *c
	return &cp, nil
}

func (m *memStore) Delete(_ context.Context, orgID, id uuid.UUID) error {
	c, ok := m.categories[id]
	if !ok || c.OrganizationID != orgID {
		return ErrNotFound
	}
	delete(m.categories, id)
	for sid, s := range m.subcategories {
		if s.CategoryID == id {
			delete(m.subcategories, sid)
		}
	}
	return nil
}

func (m *memStore) CreateSubcategory(_ context.Context, orgID uuid.UUID, s *models.Subcategory) error {
	parent, ok := m.categories[s.CategoryID]
	if !ok || parent.OrganizationID != orgID {
		return ErrNotFound
	}
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	cp := *s
	m.subcategories[s.ID] = &cp
	return nil
}

func (m *memStore) DeleteSubcategory(_ context.Context, orgID, id uuid.UUID) error {
	s, ok := m.subcategories[id]
	if !ok {
		return ErrNotFound
	}
	parent, ok := m.categories[s.CategoryID]
	if !ok || parent.OrganizationID != orgID {
		return ErrNotFound
	}
	delete(m.subcategories, id)
	return nil
}

func TestCreateSubcategoryUnderOwnCategory(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	orgID := uuid.New()

	cat, err := svc.Create(context.Background(), orgID, uuid.New(), "VIP")
	require.NoError(t, err)

	sub, err := svc.CreateSubcategory(context.Background(), orgID, cat.ID, "Gold")
	require.NoError(t, err)
	require.Equal(t, cat.ID, sub.CategoryID)
	require.NotEqual(t, uuid.Nil, sub.ID)
}

func TestCreateSubcategoryForeignCategoryRejected(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	ownerOrg := uuid.New()
	cat, err := svc.Create(context.Background(), ownerOrg, uuid.New(), "VIP")
	require.NoError(t, err)

	_, err = svc.CreateSubcategory(context.Background(), uuid.New(), cat.ID, "Gold")
	require.ErrorIs(t, err, ErrNotFound)
	require.Empty(t, store.subcategories)
}

func TestCreateSubcategoryUnknownCategory(t *testing.T) {
	svc := NewService(newMemStore())

	_, err := svc.CreateSubcategory(context.Background(), uuid.New(), uuid.New(), "Gold")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCategoryCascades(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	orgID := uuid.New()

	cat, err := svc.Create(context.Background(), orgID, uuid.New(), "VIP")
	require.NoError(t, err)
	_, err = svc.CreateSubcategory(context.Background(), orgID, cat.ID, "Gold")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), orgID, cat.ID))
	require.Empty(t, store.subcategories)
}

func TestDeleteSubcategoryForeignOrgRejected(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	orgID := uuid.New()

	cat, err := svc.Create(context.Background(), orgID, uuid.New(), "VIP")
	require.NoError(t, err)
	sub, err := svc.CreateSubcategory(context.Background(), orgID, cat.ID, "Gold")
	require.NoError(t, err)

	err = svc.DeleteSubcategory(context.Background(), uuid.New(), sub.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.Len(t, store.subcategories, 1)
}
