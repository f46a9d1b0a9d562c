package listings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ashishkaushik/leazzy/internal/client/models"
	"github.com/ashishkaushik/leazzy/internal/common"
	"github.com/ashishkaushik/leazzy/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, properties []models.Property) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM listings`); err != nil {
			return fmt.Errorf("failed to clear listings: %w", err)
		}
		for _, p := range properties {
			amenities, err := json.Marshal(p.Amenities)
			if err != nil {
				return fmt.Errorf("failed to encode amenities for %s: %w", p.ID, err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO listings (id, title, price, location, property_type, image_url, amenities)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, p.ID, p.Title, p.Price, p.Location, p.PropertyType, p.ImageURL, amenities)
			if err != nil {
				return fmt.Errorf("failed to insert listing %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Property, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, price, location, property_type, image_url, amenities
		FROM listings ORDER BY title
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	var result []models.Property
	for rows.Next() {
		p, err := scanProperty(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Property, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, price, location, property_type, image_url, amenities
		FROM listings WHERE id = ?
	`, id)

	p, err := scanProperty(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanProperty(scan func(dest ...any) error) (*models.Property, error) {
	var p models.Property
	var amenities []byte
	if err := scan(&p.ID, &p.Title, &p.Price, &p.Location, &p.PropertyType, &p.ImageURL, &amenities); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan listing row: %w", err)
	}
	if len(amenities) > 0 {
		if err := json.Unmarshal(amenities, &p.Amenities); err != nil {
			return nil, fmt.Errorf("failed to decode amenities: %w", err)
		}
	}
	return &p, nil
}
