package models

import (
	"time"

	"github.com/google/uuid"
)

// Health status values for recording URL probes.
const (
	HealthUnknown   = "unknown"
	HealthHealthy   = "healthy"
	HealthUnhealthy = "unhealthy"
)

// Recording belongs to a meeting and is addressed by its URL, which is the
// primary key. Private recordings are visible to the meeting host only;
// public recordings are visible to shared viewers holding the meeting
// password.
type Recording struct {
	URL       string    `json:"url"`
	IsPrivate bool      `json:"is_private"`
	MeetingID uuid.UUID `json:"meeting_id"`

	HealthStatus    *string    `json:"health_status,omitempty"`
	HealthCheckedAt *time.Time `json:"health_checked_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
