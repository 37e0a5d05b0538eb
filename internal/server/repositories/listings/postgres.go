// Package listings stores the places users offer for booking.
package listings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/wanderlust/internal/common"
	"github.com/dmitrijs2005/wanderlust/internal/dbx"
	"github.com/dmitrijs2005/wanderlust/internal/server/maps"
	"github.com/dmitrijs2005/wanderlust/internal/server/models"
)

// PostgresRepository implements listing storage over a dbx.DBTX.
// Coordinates are kept as separate lng and lat columns.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, l *models.Listing) (*models.Listing, error) {
	query := `
		INSERT INTO listings (owner_id, title, description, price, location, country, lng, lat, image_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		l.OwnerID, l.Title, l.Description, l.Price, l.Location, l.Country,
		l.Geometry.Lng(), l.Geometry.Lat(), l.ImageKey,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Listing, error) {
	query := `
		SELECT id, owner_id, title, description, price, location, country, lng, lat, image_key, created_at
		FROM listings
		WHERE id = $1
	`
	l, err := scanListing(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

// ListByOwner returns the owner's listings, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Listing, error) {
	query := `
		SELECT id, owner_id, title, description, price, location, country, lng, lat, image_key, created_at
		FROM listings
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select listings: %w", err)
	}
	defer rows.Close()

	var result []*models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetImage attaches an uploaded image to a listing. Only the owner may do
// so; a foreign or unknown listing yields common.ErrorNotFound.
func (r *PostgresRepository) SetImage(ctx context.Context, id, ownerID, imageKey string) error {
	query := `
		UPDATE listings SET image_key = $1
		WHERE id = $2 AND owner_id = $3
	`
	res, err := r.db.ExecContext(ctx, query, imageKey, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanListing(s scanner) (*models.Listing, error) {
	var (
		l        models.Listing
		lng, lat float64
	)
	if err := s.Scan(
		&l.ID, &l.OwnerID, &l.Title, &l.Description, &l.Price, &l.Location, &l.Country,
		&lng, &lat, &l.ImageKey, &l.CreatedAt,
	); err != nil {
		return nil, err
	}
	l.Geometry = maps.Coordinates{lng, lat}
	return &l, nil
}
