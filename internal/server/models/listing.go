package models

import (
	"time"

	"github.com/dmitrijs2005/wanderlust/internal/server/maps"
)

// Listing is a place offered for booking. Geometry positions it on the map.
type Listing struct {
	ID          string
	OwnerID     string
	Title       string `validate:"required"`
	Description string
	Price       int64  `validate:"gte=0"`
	Location    string `validate:"required"`
	Country     string `validate:"required"`
	Geometry    maps.Coordinates
	ImageKey    string
	CreatedAt   time.Time
}

func (l *Listing) Validate() error { return Validate(l) }
