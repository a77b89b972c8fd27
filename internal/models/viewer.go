package models

import (
	"time"

	"github.com/google/uuid"
)

// Viewer represents a registered viewer identified by email.
type Viewer struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
