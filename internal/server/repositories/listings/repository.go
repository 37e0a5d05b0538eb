package listings

import (
	"context"

	"github.com/dmitrijs2005/wanderlust/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, listing *models.Listing) (*models.Listing, error)
	Get(ctx context.Context, id string) (*models.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Listing, error)
	SetImage(ctx context.Context, id, ownerID, imageKey string) error
}
