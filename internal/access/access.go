// Package access implements the sharing and access decisions for
// recordings: who may be added to a recording's sharing set, and whether a
// given viewer can see a given recording.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"recshare/internal/models"
	"recshare/internal/store"
)

// Decision is the structured outcome of an access check.
type Decision string

const (
	Granted Decision = "granted"
	Denied  Decision = "denied"
)

var (
	// ErrCannotSharePrivate is returned when sharing a private recording.
	ErrCannotSharePrivate = errors.New("cannot add viewers to a private recording")

	// ErrIntegrity marks storage corruption: a recording whose meeting no
	// longer exists even though creation validated it. Never caused by user
	// input.
	ErrIntegrity = errors.New("referential integrity violation")
)

// Store is the slice of the storage interface the engine needs.
type Store interface {
	FindViewerByEmail(ctx context.Context, email string) (*models.Viewer, error)
	FindRecordingByURL(ctx context.Context, url string) (*models.Recording, error)
	FindMeetingByID(ctx context.Context, id uuid.UUID) (*models.Meeting, error)
	IsShared(ctx context.Context, url, email string) (bool, error)
	AddSharingEntry(ctx context.Context, url, email string) error
}

// Engine evaluates sharing and access-check requests against the store.
type Engine struct {
	store Store
}

// New creates an engine bound to the given store.
func New(s Store) *Engine {
	return &Engine{store: s}
}

// Share adds a viewer to a recording's sharing set. Checks run in a fixed
// order so error precedence is deterministic: viewer existence, recording
// existence, duplicate pair, privacy policy. The storage layer's uniqueness
// constraint backs the duplicate check, so a concurrent share of the same
// pair surfaces as ErrAlreadyShared rather than a second entry.
func (e *Engine) Share(ctx context.Context, url, viewerEmail string) error {
	if _, err := e.store.FindViewerByEmail(ctx, viewerEmail); err != nil {
		if errors.Is(err, store.ErrViewerNotFound) {
			return fmt.Errorf("viewer %s: %w", viewerEmail, store.ErrViewerNotFound)
		}
		return err
	}

	recording, err := e.store.FindRecordingByURL(ctx, url)
	if err != nil {
		if errors.Is(err, store.ErrRecordingNotFound) {
			return fmt.Errorf("recording %s: %w", url, store.ErrRecordingNotFound)
		}
		return err
	}

	shared, err := e.store.IsShared(ctx, url, viewerEmail)
	if err != nil {
		return err
	}
	if shared {
		return fmt.Errorf("recording %s, viewer %s: %w", url, viewerEmail, store.ErrAlreadyShared)
	}

	if recording.IsPrivate {
		return fmt.Errorf("recording %s: %w", url, ErrCannotSharePrivate)
	}

	return e.store.AddSharingEntry(ctx, url, viewerEmail)
}

// CheckAccess decides whether a viewer can see a recording. It never
// mutates state.
//
// Private recordings are host-only: the decision compares the viewer's
// email against the owning meeting's host and ignores both the password
// and the sharing set. Public recordings require the meeting password and
// membership in the sharing set; either one alone is not enough.
func (e *Engine) CheckAccess(ctx context.Context, url, viewerEmail, password string) (Decision, error) {
	if _, err := e.store.FindViewerByEmail(ctx, viewerEmail); err != nil {
		if errors.Is(err, store.ErrViewerNotFound) {
			return Denied, fmt.Errorf("viewer %s: %w", viewerEmail, store.ErrViewerNotFound)
		}
		return Denied, err
	}

	recording, err := e.store.FindRecordingByURL(ctx, url)
	if err != nil {
		if errors.Is(err, store.ErrRecordingNotFound) {
			return Denied, fmt.Errorf("recording %s: %w", url, store.ErrRecordingNotFound)
		}
		return Denied, err
	}

	meeting, err := e.store.FindMeetingByID(ctx, recording.MeetingID)
	if err != nil {
		if errors.Is(err, store.ErrMeetingNotFound) {
			// Creation-time validation guarantees the meeting exists.
			return Denied, fmt.Errorf("recording %s references missing meeting %s: %w",
				url, recording.MeetingID, ErrIntegrity)
		}
		return Denied, err
	}

	if recording.IsPrivate {
		if viewerEmail == meeting.HostEmail {
			return Granted, nil
		}
		return Denied, nil
	}

	if password != meeting.Password {
		return Denied, nil
	}

	shared, err := e.store.IsShared(ctx, url, viewerEmail)
	if err != nil {
		return Denied, err
	}
	if !shared {
		return Denied, nil
	}

	return Granted, nil
}
