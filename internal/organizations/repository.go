package organizations

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventflow/backend/internal/models"
)

// Repository handles organization persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an organizations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID returns an organization by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	const q = `SELECT id, name, owner_id, email_configuration, created_at FROM organizations WHERE id = $1`
	var org models.Organization
	err := r.pool.QueryRow(ctx, q, id).Scan(&org.ID, &org.Name, &org.OwnerID, &org.EmailConfiguration, &org.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// Update updates the organization's name and email configuration.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name string, emailConfiguration json.RawMessage) (*models.Organization, error) {
	const q = `UPDATE organizations
		SET name = COALESCE(NULLIF($2, ''), name),
		    email_configuration = COALESCE($3, email_configuration)
		WHERE id = $1
		RETURNING id, name, owner_id, email_configuration, created_at`
	var org models.Organization
	err := r.pool.QueryRow(ctx, q, id, name, emailConfiguration).Scan(&org.ID, &org.Name, &org.OwnerID, &org.EmailConfiguration, &org.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &org, nil
}
