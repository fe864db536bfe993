package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventflow/backend/internal/models"
)

const userColumns = `id, email, COALESCE(password_hash,''), name, role, organization_id, is_invitation, COALESCE(avatar,''), created_at`

// Repository handles user persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.Role, &u.OrganizationID, &u.IsInvitation, &u.Avatar, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail returns a user by email, pending invitations included.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// CreateWithOrganization creates an organization and its owner admin user in
// one transaction. Used at signup when no invitation is pending.
func (r *Repository) CreateWithOrganization(ctx context.Context, email, passwordHash, name, orgName string) (*models.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var orgID uuid.UUID
	if err := tx.QueryRow(ctx,
		`INSERT INTO organizations (id, name) VALUES (gen_random_uuid(), $1) RETURNING id`,
		orgName,
	).Scan(&orgID); err != nil {
		return nil, fmt.Errorf("insert organization: %w", err)
	}

	u, err := scanUser(tx.QueryRow(ctx,
		`INSERT INTO users (id, email, password_hash, name, role, organization_id)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		email, passwordHash, name, string(models.RoleAdmin), orgID,
	))
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE organizations SET owner_id = $1 WHERE id = $2`, u.ID, orgID); err != nil {
		return nil, fmt.Errorf("set organization owner: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return u, nil
}

// ClaimInvitation resolves a pending invitation at signup: the invitee keeps
// the invited role and organization, and gains credentials.
func (r *Repository) ClaimInvitation(ctx context.Context, id uuid.UUID, passwordHash, name string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`UPDATE users
		SET password_hash = $2, name = COALESCE(NULLIF($3, ''), name), is_invitation = FALSE
		WHERE id = $1 AND is_invitation
		RETURNING `+userColumns,
		id, passwordHash, name,
	))
}
