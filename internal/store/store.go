package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"recshare/internal/models"
)

// Counts holds per-entity row counts for the metrics collector.
type Counts struct {
	Viewers    int
	Meetings   int
	Recordings int
	Shares     int
}

// Store is the narrow persistence interface the handlers and the access
// engine consume. Backends must enforce email uniqueness for viewers, URL
// uniqueness for recordings, and at-most-once (recording, viewer) sharing
// entries; DeleteRecording removes the recording together with its sharing
// entries.
type Store interface {
	// Viewers
	FindViewerByEmail(ctx context.Context, email string) (*models.Viewer, error)
	InsertViewer(ctx context.Context, viewer *models.Viewer) error
	ListViewers(ctx context.Context) ([]models.Viewer, error)

	// Meetings
	FindMeetingByID(ctx context.Context, id uuid.UUID) (*models.Meeting, error)
	InsertMeeting(ctx context.Context, meeting *models.Meeting) error
	ListMeetings(ctx context.Context) ([]models.Meeting, error)

	// Recordings
	FindRecordingByURL(ctx context.Context, url string) (*models.Recording, error)
	InsertRecording(ctx context.Context, recording *models.Recording) error
	ListRecordings(ctx context.Context) ([]models.Recording, error)
	DeleteRecording(ctx context.Context, url string) (*models.Recording, error)
	RecordingsNeedingProbe(ctx context.Context, maxAge time.Duration, limit int) ([]models.Recording, error)
	UpdateRecordingHealth(ctx context.Context, url, status string) error

	// Sharing set
	AddSharingEntry(ctx context.Context, url, email string) error
	IsShared(ctx context.Context, url, email string) (bool, error)
	ListSharedViewers(ctx context.Context, url string) ([]models.Viewer, error)

	// Operational
	Counts(ctx context.Context) (Counts, error)
	Ping(ctx context.Context) error
	Close()
}
