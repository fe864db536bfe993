package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AttendeeStatus values. Check-in is an unconditional transition: scanning a
// code moves the attendee to checked_in regardless of prior status.
type AttendeeStatus string

const (
	AttendeeStatusRegistered AttendeeStatus = "registered"
	AttendeeStatusCheckedIn  AttendeeStatus = "checked_in"
	AttendeeStatusCancelled  AttendeeStatus = "cancelled"
)

// Attendee represents a registered participant. EventID is nullable: an
// attendee may be unassigned, or left dangling after its event is deleted.
// QRCode is globally unique and immutable once issued.
type Attendee struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone,omitempty"`
	EventID        *uuid.UUID      `json:"event_id,omitempty"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	CategoryIDs    []uuid.UUID     `json:"category_ids,omitempty"`
	SubcategoryIDs []uuid.UUID     `json:"subcategory_ids,omitempty"`
	Status         AttendeeStatus  `json:"status"`
	QRCode         string          `json:"qr_code"`
	ProfileData    json.RawMessage `json:"profile_data,omitempty"`
	RegisteredAt   time.Time       `json:"registered_at"`
	CheckedInAt    *time.Time      `json:"checked_in_at,omitempty"`
}
