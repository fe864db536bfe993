package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Campaign status values.
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusScheduled = "scheduled"
	CampaignStatusSending   = "sending"
	CampaignStatusCompleted = "completed"
	CampaignStatusFailed    = "failed"
)

// EmailCampaign is a bulk mailing to an organization's attendees. SentCount is
// bumped by the worker as deliveries complete.
type EmailCampaign struct {
	ID              uuid.UUID       `json:"id"`
	OrganizationID  uuid.UUID       `json:"organization_id"`
	Title           string          `json:"title"`
	Subject         string          `json:"subject"`
	Content         string          `json:"content"`
	Description     string          `json:"description,omitempty"`
	LinkedEventID   *uuid.UUID      `json:"linked_event_id,omitempty"`
	RecipientFilter json.RawMessage `json:"recipient_filter,omitempty"`
	Status          string          `json:"status"`
	SentCount       int             `json:"sent_count"`
	OpenCount       int             `json:"open_count"`
	ClickCount      int             `json:"click_count"`
	ScheduledAt     *time.Time      `json:"scheduled_at,omitempty"`
	SentAt          *time.Time      `json:"sent_at,omitempty"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CreatedBy       uuid.UUID       `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// EmailLogStatus values for delivery records.
const (
	EmailLogStatusSent   = "sent"
	EmailLogStatusFailed = "failed"
)

// EmailLog records one delivery batch performed for a campaign.
type EmailLog struct {
	ID         uuid.UUID  `json:"id"`
	CampaignID *uuid.UUID `json:"campaign_id,omitempty"`
	Subject    string     `json:"subject"`
	Content    string     `json:"content"`
	Recipients []string   `json:"recipients,omitempty"`
	Status     string     `json:"status"`
	IsTest     bool       `json:"is_test"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
}
