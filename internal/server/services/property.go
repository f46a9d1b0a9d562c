package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ashishkaushik/leazzy/internal/common"
	"github.com/ashishkaushik/leazzy/internal/server/models"
	"github.com/ashishkaushik/leazzy/internal/server/repositories/repomanager"
)

// Server-side listing constraints. Submissions are re-validated here no
// matter what the client checked.
const (
	MinRent   = 4000
	MaxRent   = 25000
	MinPhotos = 1
)

var validUnitTypes = map[string]bool{
	"1 BHK":     true,
	"2 BHK":     true,
	"3 BHK":     true,
	"1RK or PG": true,
}

// PropertyService validates and stores rental listings.
type PropertyService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPropertyService(db *sql.DB, m repomanager.RepositoryManager) *PropertyService {
	return &PropertyService{db: db, repomanager: m}
}

// Create validates the submitted listing, assigns it an id and stores it.
// Violations map to common.ErrorValidation.
func (s *PropertyService) Create(ctx context.Context, ownerID string, p *models.Property) (string, error) {
	if err := validateListing(p); err != nil {
		return "", err
	}

	p.ID = uuid.NewString()
	p.OwnerID = ownerID
	p.CreatedAt = time.Now()
	if p.Amenities == nil {
		p.Amenities = map[string]bool{}
	}
	if p.Rules == nil {
		p.Rules = map[string]bool{}
	}
	if p.Photos == nil {
		p.Photos = []string{}
	}

	if err := s.repomanager.Properties(s.db).Create(ctx, p); err != nil {
		return "", fmt.Errorf("error creating property: %w", err)
	}
	return p.ID, nil
}

// List returns all published listings, newest first.
func (s *PropertyService) List(ctx context.Context) ([]*models.Property, error) {
	return s.repomanager.Properties(s.db).List(ctx)
}

// Get returns a single listing by id.
func (s *PropertyService) Get(ctx context.Context, id string) (*models.Property, error) {
	return s.repomanager.Properties(s.db).GetByID(ctx, id)
}

func validateListing(p *models.Property) error {
	switch {
	case p.Title == "":
		return fmt.Errorf("%w: title is required", common.ErrorValidation)
	case !validUnitTypes[p.PropertyType]:
		return fmt.Errorf("%w: unknown unit type %q", common.ErrorValidation, p.PropertyType)
	case p.Rent < MinRent || p.Rent > MaxRent:
		return fmt.Errorf("%w: rent must be between %d and %d", common.ErrorValidation, MinRent, MaxRent)
	case len(p.Photos) < MinPhotos:
		return fmt.Errorf("%w: at least %d photo is required", common.ErrorValidation, MinPhotos)
	case p.City == "":
		return fmt.Errorf("%w: city is required", common.ErrorValidation)
	case !p.IsAvailable && p.AvailableFrom == "":
		return fmt.Errorf("%w: availability date is required", common.ErrorValidation)
	}
	return nil
}
