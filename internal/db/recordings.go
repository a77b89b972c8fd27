package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"recshare/internal/models"
	"recshare/internal/store"
)

// InsertRecording persists a new recording with an empty sharing set.
func (d *DB) InsertRecording(ctx context.Context, recording *models.Recording) error {
	query := `
		INSERT INTO recordings (url, is_private, meeting_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := d.Pool.QueryRow(ctx, query,
		recording.URL,
		recording.IsPrivate,
		recording.MeetingID,
	).Scan(&recording.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return store.ErrDuplicateURL
			case "23503":
				return store.ErrMeetingNotFound
			}
		}
		return err
	}

	return nil
}

// FindRecordingByURL retrieves a recording by its URL primary key.
func (d *DB) FindRecordingByURL(ctx context.Context, url string) (*models.Recording, error) {
	query := `
		SELECT url, is_private, meeting_id, health_status, health_checked_at, created_at
		FROM recordings WHERE url = $1
	`

	var recording models.Recording
	err := d.Pool.QueryRow(ctx, query, url).Scan(
		&recording.URL,
		&recording.IsPrivate,
		&recording.MeetingID,
		&recording.HealthStatus,
		&recording.HealthCheckedAt,
		&recording.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrRecordingNotFound
	}
	if err != nil {
		return nil, err
	}

	return &recording, nil
}

// ListRecordings returns all recordings in creation order.
func (d *DB) ListRecordings(ctx context.Context) ([]models.Recording, error) {
	query := `
		SELECT url, is_private, meeting_id, health_status, health_checked_at, created_at
		FROM recordings ORDER BY created_at ASC, url ASC
	`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recordings []models.Recording
	for rows.Next() {
		var r models.Recording
		if err := rows.Scan(&r.URL, &r.IsPrivate, &r.MeetingID, &r.HealthStatus, &r.HealthCheckedAt, &r.CreatedAt); err != nil {
			return nil, err
		}
		recordings = append(recordings, r)
	}

	return recordings, rows.Err()
}

// DeleteRecording removes a recording and returns its snapshot. Sharing
// entries go with it via ON DELETE CASCADE, so the recording and its
// sharing set disappear in one statement.
func (d *DB) DeleteRecording(ctx context.Context, url string) (*models.Recording, error) {
	query := `
		DELETE FROM recordings WHERE url = $1
		RETURNING url, is_private, meeting_id, health_status, health_checked_at, created_at
	`

	var recording models.Recording
	err := d.Pool.QueryRow(ctx, query, url).Scan(
		&recording.URL,
		&recording.IsPrivate,
		&recording.MeetingID,
		&recording.HealthStatus,
		&recording.HealthCheckedAt,
		&recording.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrRecordingNotFound
	}
	if err != nil {
		return nil, err
	}

	return &recording, nil
}

// RecordingsNeedingProbe returns recordings that have never been probed or
// whose last probe is older than maxAge.
func (d *DB) RecordingsNeedingProbe(ctx context.Context, maxAge time.Duration, limit int) ([]models.Recording, error) {
	query := `
		SELECT url, is_private, meeting_id, health_status, health_checked_at, created_at
		FROM recordings
		WHERE health_checked_at IS NULL OR health_checked_at < NOW() - ($1 * INTERVAL '1 second')
		ORDER BY health_checked_at ASC NULLS FIRST
		LIMIT $2
	`

	rows, err := d.Pool.Query(ctx, query, maxAge.Seconds(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recordings []models.Recording
	for rows.Next() {
		var r models.Recording
		if err := rows.Scan(&r.URL, &r.IsPrivate, &r.MeetingID, &r.HealthStatus, &r.HealthCheckedAt, &r.CreatedAt); err != nil {
			return nil, err
		}
		recordings = append(recordings, r)
	}

	return recordings, rows.Err()
}

// UpdateRecordingHealth records the outcome of a URL probe.
func (d *DB) UpdateRecordingHealth(ctx context.Context, url, status string) error {
	query := `UPDATE recordings SET health_status = $1, health_checked_at = NOW() WHERE url = $2`

	result, err := d.Pool.Exec(ctx, query, status, url)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return store.ErrRecordingNotFound
	}
	return nil
}
