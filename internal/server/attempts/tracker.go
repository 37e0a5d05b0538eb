// Package attempts records failed login attempts per username so the local
// authentication capability can back off and lock accounts.
package attempts

import (
	"context"
	"time"
)

// State is the failure history for one username.
type State struct {
	Attempts int
	Last     time.Time
}

// Tracker stores attempt state. Implementations must be safe for concurrent use.
type Tracker interface {
	// Get returns the current state; an unknown username yields the zero State.
	Get(ctx context.Context, username string) (State, error)

	// Fail increments the counter and stamps the attempt time.
	Fail(ctx context.Context, username string, at time.Time) (State, error)

	// Reset zeroes the counter and stamps the successful attempt time.
	Reset(ctx context.Context, username string, at time.Time) error

	// Clear forgets the username entirely, lifting any lockout.
	Clear(ctx context.Context, username string) error
}
