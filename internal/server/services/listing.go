package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/wanderlust/internal/common"
	"github.com/dmitrijs2005/wanderlust/internal/server/maps"
	"github.com/dmitrijs2005/wanderlust/internal/server/models"
	"github.com/dmitrijs2005/wanderlust/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type ListingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewListingService(db *sql.DB, m repomanager.RepositoryManager) *ListingService {
	return &ListingService{db: db, repomanager: m}
}

// Create stores a listing owned by ownerID.
func (s *ListingService) Create(ctx context.Context, ownerID string, l *models.Listing) (*models.Listing, error) {
	l.OwnerID = ownerID
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if l.ImageKey != "" && !IsImageKey(l.ImageKey) {
		return nil, fmt.Errorf("%w: image_key: prefix", common.ErrorValidation)
	}

	created, err := s.repomanager.Listings(s.db).Create(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("error creating listing: %w", err)
	}
	return created, nil
}

// Get returns common.ErrorNotFound for unknown or malformed ids.
func (s *ListingService) Get(ctx context.Context, id string) (*models.Listing, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	l, err := s.repomanager.Listings(s.db).Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return l, nil
}

func (s *ListingService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Listing, error) {
	ls, err := s.repomanager.Listings(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return ls, nil
}

// MapView describes the location map of a listing.
func (s *ListingService) MapView(ctx context.Context, id string) (*maps.View, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v := maps.NewLocationView(l.Geometry)
	return &v, nil
}

// AttachImage points the listing at an uploaded object. Only the owner can
// attach; other callers get common.ErrorNotFound.
func (s *ListingService) AttachImage(ctx context.Context, id, ownerID, key string) error {
	if !IsImageKey(key) {
		return fmt.Errorf("%w: image_key: prefix", common.ErrorValidation)
	}
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	if err := s.repomanager.Listings(s.db).SetImage(ctx, id, ownerID, key); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return nil
}

// IsImageKey reports whether key was issued by ImageService.
func IsImageKey(key string) bool {
	return strings.HasPrefix(key, imageKeyPrefix) && !strings.Contains(key, "..")
}
