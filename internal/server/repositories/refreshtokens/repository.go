// Package refreshtokens declares the repository contract for session refresh
// tokens.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/wanderlust/internal/server/models"
)

type Repository interface {
	// Create stores a refresh token for userID valid until expires.
	Create(ctx context.Context, userID string, token string, expires time.Time) error

	// Find returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete is a no-op for unknown tokens.
	Delete(ctx context.Context, token string) error

	// DeleteForUser revokes every session of a user and reports how many
	// tokens were removed.
	DeleteForUser(ctx context.Context, userID string) (int64, error)
}
