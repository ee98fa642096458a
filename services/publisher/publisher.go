package publisher

import (
	"context"
	"encoding/json"

	"sjsage522/usedcarworker/internal/models"
	crawlerrors "sjsage522/usedcarworker/pkg/errors"
)

// ListingField is the stream field carrying a base64 JSON listing
const ListingField = "b64_listing"

// Publisher represents a service for publishing messages
type Publisher interface {
	// Publish publishes a message to a stream under the given field
	Publish(ctx context.Context, key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams(ctx context.Context) error

	// Close closes the publisher connection
	Close() error
}

// PublishListings publishes one message per record. It stops at the first
// failure and returns how many were published.
func PublishListings(ctx context.Context, p Publisher, records []models.ListingRecord) (int, error) {
	for i, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return i, crawlerrors.NewPublisher(ListingField, "failed to marshal listing", err)
		}
		if err := p.Publish(ctx, ListingField, payload); err != nil {
			return i, crawlerrors.NewPublisher(ListingField, "failed to publish "+record.Link, err)
		}
	}
	return len(records), nil
}
