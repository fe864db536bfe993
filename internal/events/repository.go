package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventflow/backend/internal/models"
)

const eventColumns = `id, title, COALESCE(description,''), date, start_time, end_time, location, capacity, status,
	organization_id, created_by, registrations, check_ins, COALESCE(qr_code_image,''), COALESCE(public_url_id,''),
	COALESCE(banner,''), form_fields, created_at, updated_at`

// Repository handles event persistence. Every read and mutation is scoped to
// an organization; a cross-tenant ID simply does not match.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.StartTime, &e.EndTime, &e.Location, &e.Capacity,
		&e.Status, &e.OrganizationID, &e.CreatedBy, &e.Registrations, &e.CheckIns, &e.QRCodeImage, &e.PublicURLID,
		&e.Banner, &e.FormFields, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event. The QR image and public URL id are produced by
// the caller before the insert, so the row and its code land in one write.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	const q = `INSERT INTO events (id, title, description, date, start_time, end_time, location, capacity, status,
		organization_id, created_by, qr_code_image, public_url_id, banner, form_fields)
		VALUES (gen_random_uuid(), $1, NULLIF($2,''), $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11,''), NULLIF($12,''), NULLIF($13,''), $14)
		RETURNING id, registrations, check_ins, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, e.Title, e.Description, e.Date, e.StartTime, e.EndTime, e.Location, e.Capacity,
		string(e.Status), e.OrganizationID, e.CreatedBy, e.QRCodeImage, e.PublicURLID, e.Banner, e.FormFields).
		Scan(&e.ID, &e.Registrations, &e.CheckIns, &e.CreatedAt, &e.UpdatedAt)
}

// List returns the organization's events, newest first.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID) ([]models.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events WHERE organization_id = $1 ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// GetByID returns one event within the organization.
func (r *Repository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1 AND organization_id = $2`, id, orgID))
}

// GetByPublicURLID returns an event by its public page id. Used by the
// unauthenticated public endpoint.
func (r *Repository) GetByPublicURLID(ctx context.Context, publicID string) (*models.Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE public_url_id = $1`, publicID))
}

// UpdateParams holds optional fields for a partial event update. Nil fields
// keep their stored value.
type UpdateParams struct {
	Title       *string
	Description *string
	Date        *time.Time
	StartTime   *string
	EndTime     *string
	Location    *string
	Capacity    *int
	Status      *string
	FormFields  json.RawMessage
}

// Update applies a partial update within the organization.
func (r *Repository) Update(ctx context.Context, orgID, id uuid.UUID, p UpdateParams) (*models.Event, error) {
	const q = `UPDATE events SET
		title = COALESCE($3, title),
		description = COALESCE($4, description),
		date = COALESCE($5, date),
		start_time = COALESCE($6, start_time),
		end_time = COALESCE($7, end_time),
		location = COALESCE($8, location),
		capacity = COALESCE($9, capacity),
		status = COALESCE($10, status),
		form_fields = COALESCE($11, form_fields),
		updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + eventColumns
	return scanEvent(r.pool.QueryRow(ctx, q, id, orgID, p.Title, p.Description, p.Date, p.StartTime, p.EndTime,
		p.Location, p.Capacity, p.Status, p.FormFields))
}

// UpdateBanner stores the banner URL after a successful S3 upload.
func (r *Repository) UpdateBanner(ctx context.Context, orgID, id uuid.UUID, bannerURL string) (*models.Event, error) {
	const q = `UPDATE events SET banner = $3, updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + eventColumns
	return scanEvent(r.pool.QueryRow(ctx, q, id, orgID, bannerURL))
}

// Delete removes an event. Attendees referencing it are left in place with a
// dangling event reference, which readers treat as unassigned. Returns
// pgx.ErrNoRows when the event is missing or owned by another tenant.
func (r *Repository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CountPublished returns how many of the organization's events are live.
func (r *Repository) CountPublished(ctx context.Context, orgID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM events WHERE organization_id = $1 AND status = 'published'`, orgID).Scan(&n)
	return n, err
}
