package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Organization is the tenant root. Every other entity carries an organization
// reference and is never readable or writable across organizations.
type Organization struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	OwnerID            *uuid.UUID      `json:"owner_id,omitempty"`
	EmailConfiguration json.RawMessage `json:"email_configuration,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}
