package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ashishkaushik/leazzy/internal/client/models"
	"github.com/ashishkaushik/leazzy/internal/client/repositories/listings"
	"github.com/ashishkaushik/leazzy/internal/common"
	"github.com/ashishkaushik/leazzy/internal/logging"
	"github.com/ashishkaushik/leazzy/internal/netx"
)

// Backend is the remote property API the service talks to.
type Backend interface {
	ListProperties(ctx context.Context) ([]models.Property, error)
	CreateProperty(ctx context.Context, draft models.PropertyDraft) (string, error)
	PresignPhotoUpload(ctx context.Context) (key string, url string, err error)
}

// PropertyService serves the listing catalogue. Fetches go to the backend
// and refresh the local cache; when the backend is unreachable the cache
// keeps the browse flow working.
type PropertyService struct {
	backend Backend
	cache   listings.Repository
	logger  logging.Logger
}

func NewPropertyService(backend Backend, cache listings.Repository, logger logging.Logger) *PropertyService {
	return &PropertyService{backend: backend, cache: cache, logger: logger}
}

// List returns the published listings, preferring the backend and falling
// back to the local cache when the server is unavailable.
func (s *PropertyService) List(ctx context.Context) ([]models.Property, error) {
	props, err := s.backend.ListProperties(ctx)
	if err == nil {
		if cacheErr := s.cache.ReplaceAll(ctx, props); cacheErr != nil {
			s.logger.Warn(ctx, "failed to refresh listings cache", "error", cacheErr)
		}
		return props, nil
	}

	if !errors.Is(err, common.ErrorUnavailable) {
		return nil, err
	}

	cached, cacheErr := s.cache.List(ctx)
	if cacheErr != nil || len(cached) == 0 {
		return nil, err
	}
	s.logger.Warn(ctx, "backend unavailable, serving cached listings", "count", len(cached))
	return cached, nil
}

// Get returns a single cached listing.
func (s *PropertyService) Get(ctx context.Context, id string) (*models.Property, error) {
	return s.cache.Get(ctx, id)
}

// CreateProperty publishes a completed draft and returns the new listing id.
// The method satisfies wizard.Submitter, so the wizard driver can submit
// through the service directly.
func (s *PropertyService) CreateProperty(ctx context.Context, draft models.PropertyDraft) (string, error) {
	return s.backend.CreateProperty(ctx, draft)
}

// UploadPhoto pushes a local file to object storage via a presigned URL and
// returns the storage key to reference on the draft.
func (s *PropertyService) UploadPhoto(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}

	key, url, err := s.backend.PresignPhotoUpload(ctx)
	if err != nil {
		return "", err
	}

	if err := netx.UploadToS3PresignedURL(url, data); err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	return key, nil
}
