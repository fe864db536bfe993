package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents user role inside an organization.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// User represents a dashboard user. A row with IsInvitation set is a pending
// team invitation: it has no password hash until the invitee signs up with the
// matching email.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Password       string     `json:"-"`
	Name           string     `json:"name"`
	Role           Role       `json:"role"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	IsInvitation   bool       `json:"is_invitation"`
	Avatar         string     `json:"avatar,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// UserPublic is User without sensitive fields for API responses.
type UserPublic struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Role           Role       `json:"role"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	IsInvitation   bool       `json:"is_invitation"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ToPublic converts User to UserPublic.
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
		IsInvitation:   u.IsInvitation,
		CreatedAt:      u.CreatedAt,
	}
}
