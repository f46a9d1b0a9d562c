package properties

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ashishkaushik/leazzy/internal/common"
	"github.com/ashishkaushik/leazzy/internal/dbx"
	"github.com/ashishkaushik/leazzy/internal/server/models"
)

// PostgresRepository is the production Repository over a Postgres database.
// Amenity flags, house rules and photo keys live in jsonb columns.
type PostgresRepository struct {
	db dbx.DBTX
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const propertyColumns = `id, owner_id, title, description, property_type, bed_count,
	kitchens, bathrooms, balconies, amenities, rules,
	address, city, state, zip_code, latitude, longitude,
	rent, security_deposit, maintenance_fee, photos,
	owner_name, owner_phone, owner_email, is_available, available_from, created_at`

func (r *PostgresRepository) Create(ctx context.Context, p *models.Property) error {
	amenities, err := json.Marshal(p.Amenities)
	if err != nil {
		return fmt.Errorf("encoding amenities: %w", err)
	}
	rules, err := json.Marshal(p.Rules)
	if err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	photos, err := json.Marshal(p.Photos)
	if err != nil {
		return fmt.Errorf("encoding photos: %w", err)
	}

	query := `INSERT INTO properties (` + propertyColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
	                  $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`

	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.OwnerID, p.Title, p.Description, p.PropertyType, p.BedCount,
		p.Kitchens, p.Bathrooms, p.Balconies, amenities, rules,
		p.Address, p.City, p.State, p.ZipCode, p.Latitude, p.Longitude,
		p.Rent, p.SecurityDeposit, p.MaintenanceFee, photos,
		p.OwnerName, p.OwnerPhone, p.OwnerEmail, p.IsAvailable, p.AvailableFrom, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting property: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("querying property: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, common.ErrorNotFound
	}
	return scanProperty(rows)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying properties: %w", err)
	}
	defer rows.Close()

	var out []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanProperty(rows *sql.Rows) (*models.Property, error) {
	var (
		p                        models.Property
		amenities, rules, photos []byte
	)
	err := rows.Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.PropertyType, &p.BedCount,
		&p.Kitchens, &p.Bathrooms, &p.Balconies, &amenities, &rules,
		&p.Address, &p.City, &p.State, &p.ZipCode, &p.Latitude, &p.Longitude,
		&p.Rent, &p.SecurityDeposit, &p.MaintenanceFee, &photos,
		&p.OwnerName, &p.OwnerPhone, &p.OwnerEmail, &p.IsAvailable, &p.AvailableFrom, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("scanning property: %w", err)
	}

	if err := json.Unmarshal(amenities, &p.Amenities); err != nil {
		return nil, fmt.Errorf("decoding amenities: %w", err)
	}
	if err := json.Unmarshal(rules, &p.Rules); err != nil {
		return nil, fmt.Errorf("decoding rules: %w", err)
	}
	if err := json.Unmarshal(photos, &p.Photos); err != nil {
		return nil, fmt.Errorf("decoding photos: %w", err)
	}
	return &p, nil
}
