// Package models defines the entities persisted by the server.
package models

import (
	"time"

	"github.com/dmitrijs2005/wanderlust/internal/server/localauth"
)

// User is the persisted account. Email is the only field of its own; the
// local authentication capability contributes username, salt and hash via
// the embedded Credentials.
type User struct {
	ID    string
	Email string `validate:"required"`
	localauth.Credentials
	CreatedAt time.Time
}

func (u *User) LocalAuth() *localauth.Credentials { return &u.Credentials }

// Validate enforces the schema before the user is stored.
func (u *User) Validate() error { return Validate(u) }
