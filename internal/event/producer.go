package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/domain"
	pkgkafka "github.com/MxSGameJPS/minhaloja-valorfinal/pkg/kafka"
)

// Kafka topic constants for listing domain events.
const (
	TopicListingPublished    = "seller.listing.published"
	TopicListingPriceUpdated = "seller.listing.price_updated"
)

// Aggregate type constant.
const AggregateTypeListing = "listing"

// Source identifier for events originating from this service.
const SourceListingService = "listing-service"

// ListingPublishedData is the payload for a listing.published event: the
// outcome of one batch publish.
type ListingPublishedData struct {
	ProductID    string                  `json:"product_id"`
	CategoryID   string                  `json:"category_id"`
	Created      []domain.CreatedListing `json:"created"`
	Errors       []domain.FailedListing  `json:"errors,omitempty"`
	Skipped      []string                `json:"skipped,omitempty"`
	CreatedCount int                     `json:"created_count"`
	ErrorCount   int                     `json:"error_count"`
}

// ListingPriceUpdatedData is the payload for a listing.price_updated event.
type ListingPriceUpdatedData struct {
	ListingID string `json:"listing_id"`
	Price     string `json:"price"`
	Strategy  string `json:"strategy"`
}

// Producer publishes listing domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishListingPublished publishes a listing.published event.
func (p *Producer) PublishListingPublished(ctx context.Context, data ListingPublishedData) error {
	event, err := pkgkafka.NewEvent(TopicListingPublished, data.ProductID, AggregateTypeListing, SourceListingService, data)
	if err != nil {
		return fmt.Errorf("create listing.published event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicListingPublished, event); err != nil {
		return fmt.Errorf("publish listing.published event: %w", err)
	}

	p.logger.DebugContext(ctx, "published listing.published event",
		slog.String("product_id", data.ProductID),
		slog.Int("created_count", data.CreatedCount),
	)

	return nil
}

// PublishPriceUpdated publishes a listing.price_updated event.
func (p *Producer) PublishPriceUpdated(ctx context.Context, data ListingPriceUpdatedData) error {
	event, err := pkgkafka.NewEvent(TopicListingPriceUpdated, data.ListingID, AggregateTypeListing, SourceListingService, data)
	if err != nil {
		return fmt.Errorf("create listing.price_updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicListingPriceUpdated, event); err != nil {
		return fmt.Errorf("publish listing.price_updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published listing.price_updated event",
		slog.String("listing_id", data.ListingID),
		slog.String("price", data.Price),
	)

	return nil
}
