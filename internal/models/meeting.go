package models

import (
	"time"

	"github.com/google/uuid"
)

// Meeting is hosted by a registered viewer. The password guards access to
// the meeting's public recordings.
type Meeting struct {
	ID        uuid.UUID `json:"id"`
	HostEmail string    `json:"host_email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"created_at"`
}
