package store

import (
	"context"

	"booking-scraper/internal/listing"
)

// Store persists scraped listing records keyed by their URL hash.
type Store interface {
	// Upsert inserts or overwrites the record with the same url_hash and
	// returns the stored row including its server-assigned id.
	Upsert(ctx context.Context, rec listing.Record) (*listing.StoredRecord, error)

	// ListRecent returns up to limit records ordered by scrape time descending.
	ListRecent(ctx context.Context, limit int) ([]listing.StoredRecord, error)

	// GetByID returns one record by numeric id, or a not-found error.
	GetByID(ctx context.Context, id int64) (*listing.StoredRecord, error)

	// Close releases the underlying connections.
	Close()
}
