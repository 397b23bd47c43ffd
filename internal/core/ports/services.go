package ports

import (
	"context"

	"github.com/shelterly/shelterly/internal/core/domain"
)

// BlobStorage writes and deletes binary objects in the external blob store.
type BlobStorage interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
	// Delete removes an object. Used as the best-effort compensating
	// action after a failed metadata write.
	Delete(ctx context.Context, path string) error
}

// Geocoder resolves a free-text address to a coordinate.
// Returns domain.ErrAddressNotFound or domain.ErrGeocodingUnavailable.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domain.GeocodeResult, error)
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher publishes domain events to a message broker.
// Publishing is best-effort: callers never fail a request on a broker error.
type EventPublisher interface {
	PublishProfileUpdated(ctx context.Context, res *domain.UpdateResult) error
	PublishDocumentUploaded(ctx context.Context, profileID, path string) error
	PublishBroadcast(ctx context.Context, data []byte) error
}
