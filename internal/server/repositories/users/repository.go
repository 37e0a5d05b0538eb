// Package users declares the server-side repository contract for accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/wanderlust/internal/server/localauth"
	"github.com/dmitrijs2005/wanderlust/internal/server/models"
)

// Repository persists users. It doubles as the store behind the local
// authentication capability.
type Repository interface {
	localauth.Store[*models.User]

	// GetByID returns common.ErrorNotFound when no user has the id.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
