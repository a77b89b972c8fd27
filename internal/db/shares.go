package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"recshare/internal/models"
	"recshare/internal/store"
)

// AddSharingEntry inserts one (recording, viewer) pair into the sharing
// set. The composite primary key makes the insert the uniqueness check, so
// two concurrent shares of the same pair cannot both succeed.
func (d *DB) AddSharingEntry(ctx context.Context, url, email string) error {
	query := `INSERT INTO recording_viewers (recording_url, viewer_email) VALUES ($1, $2)`

	_, err := d.Pool.Exec(ctx, query, url, email)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return store.ErrAlreadyShared
			case "23503":
				if strings.Contains(pgErr.ConstraintName, "viewer_email") {
					return store.ErrViewerNotFound
				}
				return store.ErrRecordingNotFound
			}
		}
		return err
	}

	return nil
}

// IsShared reports whether the sharing set contains the given pair.
func (d *DB) IsShared(ctx context.Context, url, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM recording_viewers WHERE recording_url = $1 AND viewer_email = $2)`

	var shared bool
	err := d.Pool.QueryRow(ctx, query, url, email).Scan(&shared)
	return shared, err
}

// ListSharedViewers returns the viewers a recording has been shared with.
func (d *DB) ListSharedViewers(ctx context.Context, url string) ([]models.Viewer, error) {
	// Distinguish "no viewers" from "no such recording".
	if _, err := d.FindRecordingByURL(ctx, url); err != nil {
		return nil, err
	}

	query := `
		SELECT v.id, v.email, v.created_at
		FROM recording_viewers rv
		JOIN viewers v ON v.email = rv.viewer_email
		WHERE rv.recording_url = $1
		ORDER BY rv.created_at ASC, v.email ASC
	`

	rows, err := d.Pool.Query(ctx, query, url)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var viewers []models.Viewer
	for rows.Next() {
		var v models.Viewer
		if err := rows.Scan(&v.ID, &v.Email, &v.CreatedAt); err != nil {
			return nil, err
		}
		viewers = append(viewers, v)
	}

	return viewers, rows.Err()
}
