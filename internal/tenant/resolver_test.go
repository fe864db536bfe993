package tenant_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/internal/tenant"
)

type mockUserStore struct {
	users map[uuid.UUID]*models.User
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, tenant.ErrNoOrganization
	}
	return u, nil
}

func TestResolverResolve(t *testing.T) {
	orgID := uuid.New()
	userID := uuid.New()
	store := &mockUserStore{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, Email: "owner@example.com", OrganizationID: &orgID},
	}}
	resolver := tenant.NewResolver(store)

	got, err := resolver.Resolve(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, orgID, got)
}

func TestResolverResolveUnknownUser(t *testing.T) {
	resolver := tenant.NewResolver(&mockUserStore{users: map[uuid.UUID]*models.User{}})

	_, err := resolver.Resolve(context.Background(), uuid.New())
	require.ErrorIs(t, err, tenant.ErrNoOrganization)
}

func TestResolverResolveUnassignedUser(t *testing.T) {
	userID := uuid.New()
	store := &mockUserStore{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, Email: "orphan@example.com"},
	}}
	resolver := tenant.NewResolver(store)

	_, err := resolver.Resolve(context.Background(), userID)
	require.ErrorIs(t, err, tenant.ErrNoOrganization)
}
