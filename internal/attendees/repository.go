package attendees

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventflow/backend/internal/models"
)

const attendeeColumns = `id, name, email, COALESCE(phone,''), event_id, organization_id, category_ids, subcategory_ids,
	status, qr_code, profile_data, registered_at, checked_in_at`

// Repository handles attendee persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an attendees repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanAttendee(row pgx.Row) (*models.Attendee, error) {
	var a models.Attendee
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.EventID, &a.OrganizationID, &a.CategoryIDs,
		&a.SubcategoryIDs, &a.Status, &a.QRCode, &a.ProfileData, &a.RegisteredAt, &a.CheckedInAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Insert creates an attendee. The qr_code is already issued by the caller, so
// the row lands in a single write. The linked event's registrations counter is
// bumped in the same transaction; a dangling event reference bumps nothing.
func (r *Repository) Insert(ctx context.Context, a *models.Attendee) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `INSERT INTO attendees (id, name, email, phone, event_id, organization_id, category_ids, subcategory_ids, status, qr_code, profile_data)
		VALUES (gen_random_uuid(), $1, $2, NULLIF($3,''), $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, registered_at`
	if err := tx.QueryRow(ctx, q, a.Name, a.Email, a.Phone, a.EventID, a.OrganizationID, a.CategoryIDs,
		a.SubcategoryIDs, string(a.Status), a.QRCode, a.ProfileData).Scan(&a.ID, &a.RegisteredAt); err != nil {
		return fmt.Errorf("insert attendee: %w", err)
	}

	if a.EventID != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE events SET registrations = registrations + 1, updated_at = NOW() WHERE id = $1 AND organization_id = $2`,
			*a.EventID, a.OrganizationID); err != nil {
			return fmt.Errorf("bump registrations: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// List returns the organization's attendees, newest registration first,
// optionally filtered by event.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID, eventID *uuid.UUID) ([]models.Attendee, error) {
	q := `SELECT ` + attendeeColumns + ` FROM attendees WHERE organization_id = $1`
	args := []interface{}{orgID}
	if eventID != nil {
		q += ` AND event_id = $2`
		args = append(args, *eventID)
	}
	rows, err := r.pool.Query(ctx, q+` ORDER BY registered_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Attendee
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

// GetByID returns one attendee within the organization.
func (r *Repository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Attendee, error) {
	return scanAttendee(r.pool.QueryRow(ctx,
		`SELECT `+attendeeColumns+` FROM attendees WHERE id = $1 AND organization_id = $2`, id, orgID))
}

// GetByQRCode returns the attendee holding the given code. Codes are globally
// unique, but the lookup is still tenant-scoped.
func (r *Repository) GetByQRCode(ctx context.Context, orgID uuid.UUID, code string) (*models.Attendee, error) {
	return scanAttendee(r.pool.QueryRow(ctx,
		`SELECT `+attendeeColumns+` FROM attendees WHERE qr_code = $1 AND organization_id = $2`, code, orgID))
}

// UpdateParams holds optional fields for a partial attendee update. The
// qr_code is immutable and deliberately absent.
type UpdateParams struct {
	Name           *string
	Email          *string
	Phone          *string
	EventID        *uuid.UUID
	CategoryIDs    []uuid.UUID
	SubcategoryIDs []uuid.UUID
	Status         *string
	ProfileData    []byte
}

// Update applies a partial update within the organization. A status change
// keeps the checked_in_at invariant: checked_in stamps it if missing, any
// other status clears it.
func (r *Repository) Update(ctx context.Context, orgID, id uuid.UUID, p UpdateParams) (*models.Attendee, error) {
	const q = `UPDATE attendees SET
		name = COALESCE($3, name),
		email = COALESCE($4, email),
		phone = COALESCE($5, phone),
		event_id = COALESCE($6, event_id),
		category_ids = COALESCE($7, category_ids),
		subcategory_ids = COALESCE($8, subcategory_ids),
		status = COALESCE($9, status),
		checked_in_at = CASE
			WHEN $9 IS NULL THEN checked_in_at
			WHEN $9 = 'checked_in' THEN COALESCE(checked_in_at, NOW())
			ELSE NULL
		END,
		profile_data = COALESCE($10, profile_data)
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + attendeeColumns
	return scanAttendee(r.pool.QueryRow(ctx, q, id, orgID, p.Name, p.Email, p.Phone, p.EventID,
		p.CategoryIDs, p.SubcategoryIDs, p.Status, p.ProfileData))
}

// Delete removes an attendee. Returns ErrNotFound when the attendee is
// missing or owned by another tenant.
func (r *Repository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM attendees WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CheckIn transitions the attendee to checked_in unconditionally, stamping
// checked_in_at with the given time. The event's check_ins counter is bumped
// only on the first transition so a re-scan does not double count.
func (r *Repository) CheckIn(ctx context.Context, orgID, id uuid.UUID, at time.Time) (*models.Attendee, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var priorStatus string
	var eventID *uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT status, event_id FROM attendees WHERE id = $1 AND organization_id = $2 FOR UPDATE`,
		id, orgID).Scan(&priorStatus, &eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	a, err := scanAttendee(tx.QueryRow(ctx,
		`UPDATE attendees SET status = $3, checked_in_at = $4 WHERE id = $1 AND organization_id = $2
		RETURNING `+attendeeColumns,
		id, orgID, string(models.AttendeeStatusCheckedIn), at))
	if err != nil {
		return nil, err
	}

	if priorStatus != string(models.AttendeeStatusCheckedIn) && eventID != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE events SET check_ins = check_ins + 1, updated_at = NOW() WHERE id = $1 AND organization_id = $2`,
			*eventID, orgID); err != nil {
			return nil, fmt.Errorf("bump check_ins: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// CountByStatus returns total attendees and how many are checked in.
func (r *Repository) CountByStatus(ctx context.Context, orgID uuid.UUID) (total, checkedIn int, err error) {
	const q = `SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'checked_in') FROM attendees WHERE organization_id = $1`
	err = r.pool.QueryRow(ctx, q, orgID).Scan(&total, &checkedIn)
	return total, checkedIn, err
}
