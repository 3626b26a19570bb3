package storage

import (
	"context"

	"caregrid-listings/models"
)

// ListingWriter is the interface any file artifact writer satisfies.
type ListingWriter interface {
	Write(listings []*models.Listing) error
}

// ListingSink persists the final listing set to an external store.
type ListingSink interface {
	Save(ctx context.Context, listings []*models.Listing) error
	Close() error
}
