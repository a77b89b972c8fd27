package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"recshare/internal/models"
	"recshare/internal/store"
)

// InsertViewer persists a new viewer and assigns its surrogate id.
func (d *DB) InsertViewer(ctx context.Context, viewer *models.Viewer) error {
	query := `
		INSERT INTO viewers (email)
		VALUES ($1)
		RETURNING id, created_at
	`

	err := d.Pool.QueryRow(ctx, query, viewer.Email).Scan(&viewer.ID, &viewer.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return store.ErrDuplicateEmail
		}
		return err
	}

	return nil
}

// FindViewerByEmail retrieves a viewer by their unique email.
func (d *DB) FindViewerByEmail(ctx context.Context, email string) (*models.Viewer, error) {
	query := `SELECT id, email, created_at FROM viewers WHERE email = $1`

	var viewer models.Viewer
	err := d.Pool.QueryRow(ctx, query, email).Scan(&viewer.ID, &viewer.Email, &viewer.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrViewerNotFound
	}
	if err != nil {
		return nil, err
	}

	return &viewer, nil
}

// ListViewers returns all viewers in registration order.
func (d *DB) ListViewers(ctx context.Context) ([]models.Viewer, error) {
	query := `SELECT id, email, created_at FROM viewers ORDER BY created_at ASC, email ASC`

	rows, err := d.Pool.Query(ctx, query)
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
