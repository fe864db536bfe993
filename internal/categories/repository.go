package categories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventflow/backend/internal/models"
)

// ErrNotFound is returned when a category or subcategory does not exist in
// the caller's organization.
var ErrNotFound = errors.New("category not found")

// Repository handles category and subcategory persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a categories repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns the organization's categories with their subcategories
// attached, newest category first.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID) ([]models.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, organization_id, created_by, created_at
		FROM categories WHERE organization_id = $1 ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Category
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.OrganizationID, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		index[c.ID] = len(list)
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	subRows, err := r.pool.Query(ctx,
		`SELECT s.id, s.name, s.category_id, s.created_at
		FROM subcategories s
		JOIN categories c ON c.id = s.category_id
		WHERE c.organization_id = $1 ORDER BY s.created_at`, orgID)
	if err != nil {
		return nil, err
	}
	defer subRows.Close()
	for subRows.Next() {
		var s models.Subcategory
		if err := subRows.Scan(&s.ID, &s.Name, &s.CategoryID, &s.CreatedAt); err != nil {
			return nil, err
		}
		if i, ok := index[s.CategoryID]; ok {
			list[i].Subcategories = append(list[i].Subcategories, s)
		}
	}
	return list, subRows.Err()
}

// GetByID returns one category within the organization, without its
// subcategories.
func (r *Repository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Category, error) {
	var c models.Category
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, organization_id, created_by, created_at
		FROM categories WHERE id = $1 AND organization_id = $2`, id, orgID).
		Scan(&c.ID, &c.Name, &c.OrganizationID, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a category for the organization.
func (r *Repository) Create(ctx context.Context, c *models.Category) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO categories (id, name, organization_id, created_by)
		VALUES (gen_random_uuid(), $1, $2, $3) RETURNING id, created_at`,
		c.Name, c.OrganizationID, c.CreatedBy).Scan(&c.ID, &c.CreatedAt)
}

// Update renames a category within the organization.
func (r *Repository) Update(ctx context.Context, orgID, id uuid.UUID, name string) (*models.Category, error) {
	var c models.Category
	err := r.pool.QueryRow(ctx,
		`UPDATE categories SET name = $3 WHERE id = $1 AND organization_id = $2
		RETURNING id, name, organization_id, created_by, created_at`,
		id, orgID, name).Scan(&c.ID, &c.Name, &c.OrganizationID, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Delete removes a category; its subcategories cascade away with it.
func (r *Repository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM categories WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateSubcategory inserts a subcategory. The parent category must belong to
// the given organization; a foreign parent reads as not found.
func (r *Repository) CreateSubcategory(ctx context.Context, orgID uuid.UUID, s *models.Subcategory) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO subcategories (id, name, category_id)
		SELECT gen_random_uuid(), $1, c.id FROM categories c
		WHERE c.id = $2 AND c.organization_id = $3
		RETURNING id, created_at`,
		s.Name, s.CategoryID, orgID).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("parent category: %w", ErrNotFound)
		}
		return err
	}
	return nil
}

// DeleteSubcategory removes a subcategory whose parent belongs to the
// organization.
func (r *Repository) DeleteSubcategory(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM subcategories s USING categories c
		WHERE s.id = $1 AND s.category_id = c.id AND c.organization_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
