package team

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventflow/backend/internal/models"
)

// Repository handles team member persistence (rows in the users table scoped
// to one organization, pending invitations included).
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a team repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByOrganization returns the organization's members, newest first.
func (r *Repository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.UserPublic, error) {
	const q = `SELECT id, email, name, role, organization_id, is_invitation, created_at
		FROM users WHERE organization_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.UserPublic
	for rows.Next() {
		var u models.UserPublic
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.OrganizationID, &u.IsInvitation, &u.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Invite creates a pending invitation: a users row without credentials that
// the invitee claims by signing up with the matching email.
func (r *Repository) Invite(ctx context.Context, orgID uuid.UUID, email, name string, role models.Role) (*models.UserPublic, error) {
	const q = `INSERT INTO users (id, email, name, role, organization_id, is_invitation)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, TRUE)
		RETURNING id, email, name, role, organization_id, is_invitation, created_at`
	var u models.UserPublic
	err := r.pool.QueryRow(ctx, q, email, name, string(role), orgID).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.OrganizationID, &u.IsInvitation, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Remove deletes a member by ID within the organization. Returns
// pgx.ErrNoRows when the member does not exist or belongs to another tenant.
func (r *Repository) Remove(ctx context.Context, orgID, memberID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1 AND organization_id = $2`, memberID, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
