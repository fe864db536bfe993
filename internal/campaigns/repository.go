package campaigns

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventflow/backend/internal/models"
)

// ErrNotFound is returned when a campaign does not exist in the caller's
// organization.
var ErrNotFound = errors.New("campaign not found")

const campaignColumns = `id, organization_id, title, subject, content, COALESCE(description,''),
	linked_event_id, recipient_filter, status, sent_count, open_count, click_count,
	scheduled_at, sent_at, completed_at, created_by, created_at`

// Repository handles campaign persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a campaigns repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanCampaign(row pgx.Row) (*models.EmailCampaign, error) {
	var c models.EmailCampaign
	err := row.Scan(&c.ID, &c.OrganizationID, &c.Title, &c.Subject, &c.Content, &c.Description,
		&c.LinkedEventID, &c.RecipientFilter, &c.Status, &c.SentCount, &c.OpenCount, &c.ClickCount,
		&c.ScheduledAt, &c.SentAt, &c.CompletedAt, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns the organization's campaigns, newest first.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID) ([]models.EmailCampaign, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+campaignColumns+` FROM email_campaigns WHERE organization_id = $1 ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.EmailCampaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *c)
	}
	return list, rows.Err()
}

// GetByID returns one campaign within the organization.
func (r *Repository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.EmailCampaign, error) {
	return scanCampaign(r.pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM email_campaigns WHERE id = $1 AND organization_id = $2`, id, orgID))
}

// Create inserts a draft campaign.
func (r *Repository) Create(ctx context.Context, c *models.EmailCampaign) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO email_campaigns (id, organization_id, title, subject, content, description,
			linked_event_id, recipient_filter, status, scheduled_at, created_by)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, NULLIF($5,''), $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		c.OrganizationID, c.Title, c.Subject, c.Content, c.Description, c.LinkedEventID,
		c.RecipientFilter, c.Status, c.ScheduledAt, c.CreatedBy).Scan(&c.ID, &c.CreatedAt)
}

// UpdateParams holds optional fields for a partial campaign update.
type UpdateParams struct {
	Title           *string
	Subject         *string
	Content         *string
	Description     *string
	LinkedEventID   *uuid.UUID
	RecipientFilter []byte
	ScheduledAt     *time.Time
}

// Update applies a partial update. Only draft and scheduled campaigns can be
// edited; a campaign that already started sending reads as not found.
func (r *Repository) Update(ctx context.Context, orgID, id uuid.UUID, p UpdateParams) (*models.EmailCampaign, error) {
	const q = `UPDATE email_campaigns SET
		title = COALESCE($3, title),
		subject = COALESCE($4, subject),
		content = COALESCE($5, content),
		description = COALESCE($6, description),
		linked_event_id = COALESCE($7, linked_event_id),
		recipient_filter = COALESCE($8, recipient_filter),
		scheduled_at = COALESCE($9, scheduled_at)
		WHERE id = $1 AND organization_id = $2 AND status IN ('draft', 'scheduled')
		RETURNING ` + campaignColumns
	return scanCampaign(r.pool.QueryRow(ctx, q, id, orgID, p.Title, p.Subject, p.Content,
		p.Description, p.LinkedEventID, p.RecipientFilter, p.ScheduledAt))
}

// Delete removes a campaign within the organization.
func (r *Repository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM email_campaigns WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkSending flips a campaign to sending. Only draft or scheduled campaigns
// transition; 0 rows means the campaign is gone or already in flight.
func (r *Repository) MarkSending(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE email_campaigns SET status = 'sending', sent_at = NOW()
		WHERE id = $1 AND organization_id = $2 AND status IN ('draft', 'scheduled')`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Finish records the terminal status and delivered count for a campaign.
func (r *Repository) Finish(ctx context.Context, orgID, id uuid.UUID, status string, sent int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE email_campaigns SET status = $3, sent_count = sent_count + $4, completed_at = NOW()
		WHERE id = $1 AND organization_id = $2`, id, orgID, status, sent)
	return err
}

// TotalSent sums sent_count across the organization's campaigns.
func (r *Repository) TotalSent(ctx context.Context, orgID uuid.UUID) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(sent_count), 0) FROM email_campaigns WHERE organization_id = $1`, orgID).Scan(&total)
	return total, err
}

// InsertLog records one delivery batch.
func (r *Repository) InsertLog(ctx context.Context, l *models.EmailLog) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO email_logs (id, campaign_id, subject, content, recipients, status, is_test, sent_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, sent_at`,
		l.CampaignID, l.Subject, l.Content, l.Recipients, l.Status, l.IsTest).Scan(&l.ID, &l.SentAt)
}
