// Package tenant resolves the acting principal's organization, the scope for
// every repository query in the system.
package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/eventflow/backend/internal/models"
)

// ErrNoOrganization is returned when the principal has no user row or its
// organization reference is unset. Dependent operations must abort rather
// than proceed with an unscoped query.
var ErrNoOrganization = errors.New("organization not found")

// UserStore is the subset of the user repository the resolver needs.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Resolver maps an authenticated principal to its organization ID. Resolution
// happens on every request; nothing is cached.
type Resolver struct {
	users UserStore
}

// NewResolver creates a tenant resolver.
func NewResolver(users UserStore) *Resolver {
	return &Resolver{users: users}
}

// Resolve returns the organization ID owning the given user.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return uuid.Nil, ErrNoOrganization
	}
	if u.OrganizationID == nil || *u.OrganizationID == uuid.Nil {
		return uuid.Nil, ErrNoOrganization
	}
	return *u.OrganizationID, nil
}
