package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventStatus is a plain flag: any state is reachable from any state.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCompleted EventStatus = "completed"
)

// Event represents an organization event. Registrations and CheckIns are
// denormalized counters maintained by the attendee write paths.
type Event struct {
	ID             uuid.UUID       `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Date           time.Time       `json:"date"`
	StartTime      string          `json:"start_time"`
	EndTime        string          `json:"end_time"`
	Location       string          `json:"location"`
	Capacity       *int            `json:"capacity,omitempty"`
	Status         EventStatus     `json:"status"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	CreatedBy      uuid.UUID       `json:"created_by"`
	Registrations  int             `json:"registrations"`
	CheckIns       int             `json:"check_ins"`
	QRCodeImage    string          `json:"qr_code_image,omitempty"`
	PublicURLID    string          `json:"public_url_id,omitempty"`
	Banner         string          `json:"banner,omitempty"`
	FormFields     json.RawMessage `json:"form_fields,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
