package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recshare/internal/models"
	"recshare/internal/store"
)

// InsertMeeting persists a new meeting and assigns its surrogate id. The
// caller is responsible for validating that host_email belongs to a
// registered viewer; the foreign key is a backstop, not the check.
func (d *DB) InsertMeeting(ctx context.Context, meeting *models.Meeting) error {
	query := `
		INSERT INTO meetings (host_email, password)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	return d.Pool.QueryRow(ctx, query, meeting.HostEmail, meeting.Password).
		Scan(&meeting.ID, &meeting.CreatedAt)
}

// FindMeetingByID retrieves a meeting by id.
func (d *DB) FindMeetingByID(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	query := `SELECT id, host_email, password, created_at FROM meetings WHERE id = $1`

	var meeting models.Meeting
	err := d.Pool.QueryRow(ctx, query, id).Scan(
		&meeting.ID,
		&meeting.HostEmail,
		&meeting.Password,
		&meeting.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrMeetingNotFound
	}
	if err != nil {
		return nil, err
	}

	return &meeting, nil
}

// ListMeetings returns all meetings in creation order.
func (d *DB) ListMeetings(ctx context.Context) ([]models.Meeting, error) {
	query := `SELECT id, host_email, password, created_at FROM meetings ORDER BY created_at ASC, id ASC`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []models.Meeting
	for rows.Next() {
		var m models.Meeting
		if err := rows.Scan(&m.ID, &m.HostEmail, &m.Password, &m.CreatedAt); err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}

	return meetings, rows.Err()
}
