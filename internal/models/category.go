package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is an organization-scoped label attached to attendees.
type Category struct {
	ID             uuid.UUID     `json:"id"`
	Name           string        `json:"name"`
	OrganizationID uuid.UUID     `json:"organization_id"`
	CreatedBy      uuid.UUID     `json:"created_by"`
	Subcategories  []Subcategory `json:"subcategories,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Subcategory belongs to exactly one category. Its category must live in the
// same organization as any attendee referencing it.
type Subcategory struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	CategoryID uuid.UUID `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}
