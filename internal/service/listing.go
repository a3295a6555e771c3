package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/domain"
	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/event"
	apperrors "github.com/MxSGameJPS/minhaloja-valorfinal/pkg/errors"
)

// ListingService orchestrates listing publication and price reconciliation:
// category resolution feeds the plan builder, the publisher executes the
// plan, and the reconciler mutates existing listings.
type ListingService struct {
	resolver   *CategoryResolver
	publisher  *Publisher
	reconciler *PriceReconciler
	market     MarketplaceAPI
	producer   *event.Producer
	logger     *slog.Logger
}

// NewListingService creates the listing service.
func NewListingService(
	resolver *CategoryResolver,
	publisher *Publisher,
	reconciler *PriceReconciler,
	market MarketplaceAPI,
	producer *event.Producer,
	logger *slog.Logger,
) *ListingService {
	return &ListingService{
		resolver:   resolver,
		publisher:  publisher,
		reconciler: reconciler,
		market:     market,
		producer:   producer,
		logger:     logger,
	}
}

// PublishListingsInput holds the parameters for a batch publish request.
type PublishListingsInput struct {
	ProductID       string          `json:"product_id" validate:"required"`
	Price           decimal.Decimal `json:"price" validate:"required"`
	Quantity        int             `json:"quantity" validate:"required,gt=0"`
	Tier            string          `json:"tier" validate:"required,oneof=classic premium"`
	CreateOtherTier bool            `json:"create_other_tier"`
	Format          string          `json:"format" validate:"required,oneof=catalog_only traditional_only both"`
	EAN             string          `json:"ean,omitempty"`
}

// PublishListings resolves the product's category, expands the intent into a
// plan and executes it. A failed category resolution aborts before any
// marketplace mutation; per-job creation failures are collected in the tally.
func (s *ListingService) PublishListings(ctx context.Context, input *PublishListingsInput) (*domain.Tally, error) {
	if input == nil {
		return nil, apperrors.InvalidInput("publish input is required")
	}
	if !input.Price.IsPositive() {
		return nil, apperrors.InvalidInput("price must be greater than zero")
	}
	tier, ok := domain.TierFromName(input.Tier)
	if !ok {
		return nil, apperrors.InvalidInput("tier must be classic or premium")
	}
	if !domain.IsValidFormat(input.Format) {
		return nil, apperrors.InvalidInput("format must be catalog_only, traditional_only or both")
	}

	resolution, err := s.resolver.Resolve(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	intent := domain.ListingIntent{
		ProductID:       input.ProductID,
		Price:           input.Price,
		Quantity:        input.Quantity,
		Tier:            tier,
		CreateOtherTier: input.CreateOtherTier,
		Format:          input.Format,
		EAN:             input.EAN,
	}

	plan := BuildPlan(intent, resolution)
	tally := s.publisher.Publish(ctx, plan.Jobs)
	tally.Skipped = plan.Skips

	s.emitPublished(ctx, input.ProductID, resolution.CategoryID, tally)
	return &tally, nil
}

// UpdatePrice reconciles an existing listing to the new price.
func (s *ListingService) UpdatePrice(ctx context.Context, listingID string, newPrice decimal.Decimal) error {
	if listingID == "" {
		return apperrors.InvalidInput("listing id is required")
	}

	strategy, err := s.reconciler.UpdatePrice(ctx, listingID, newPrice)
	if err != nil {
		return err
	}

	s.emitPriceUpdated(ctx, listingID, newPrice, strategy)
	return nil
}

// SearchCatalog finds catalog products matching an EAN, GTIN or free-text
// query. An empty result is a valid answer, not an error; the seller simply
// has no catalog product to publish against.
func (s *ListingService) SearchCatalog(ctx context.Context, query string) ([]domain.CatalogProduct, error) {
	if query == "" {
		return nil, apperrors.InvalidInput("search query is required")
	}
	return s.market.SearchCatalogProducts(ctx, query)
}

// LookupBySKU finds the seller's listing for a SKU through a three-step
// fallback: the seller item index by registered SKU, the site search
// restricted to the seller, and finally the seller item index by free query.
// Each step is fault-tolerant; the first hit wins.
func (s *ListingService) LookupBySKU(ctx context.Context, sku string) (string, error) {
	if sku == "" {
		return "", apperrors.InvalidInput("sku is required")
	}

	ids, err := s.market.SearchSellerItems(ctx, sku, true)
	if err != nil {
		s.logger.WarnContext(ctx, "sku lookup by seller_sku failed",
			slog.String("sku", sku), slog.String("error", err.Error()))
	} else if len(ids) > 0 {
		return ids[0], nil
	}

	results, err := s.market.SearchSiteBySeller(ctx, sku)
	if err != nil {
		s.logger.WarnContext(ctx, "sku lookup by site search failed",
			slog.String("sku", sku), slog.String("error", err.Error()))
	} else if len(results) > 0 {
		return results[0].ID, nil
	}

	ids, err = s.market.SearchSellerItems(ctx, sku, false)
	if err != nil {
		s.logger.WarnContext(ctx, "sku lookup by free query failed",
			slog.String("sku", sku), slog.String("error", err.Error()))
	} else if len(ids) > 0 {
		return ids[0], nil
	}

	return "", apperrors.NotFound("listing for sku", sku)
}

// emitPublished sends the listing.published event. Event failures are logged
// and never fail the request.
func (s *ListingService) emitPublished(ctx context.Context, productID, categoryID string, tally domain.Tally) {
	if s.producer == nil {
		return
	}
	data := event.ListingPublishedData{
		ProductID:    productID,
		CategoryID:   categoryID,
		Created:      tally.Created,
		Errors:       tally.Errors,
		Skipped:      tally.Skipped,
		CreatedCount: len(tally.Created),
		ErrorCount:   len(tally.Errors),
	}
	if err := s.producer.PublishListingPublished(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "failed to publish listing.published event",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *ListingService) emitPriceUpdated(ctx context.Context, listingID string, price decimal.Decimal, strategy string) {
	if s.producer == nil {
		return
	}
	data := event.ListingPriceUpdatedData{
		ListingID: listingID,
		Price:     price.String(),
		Strategy:  strategy,
	}
	if err := s.producer.PublishPriceUpdated(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "failed to publish listing.price_updated event",
			slog.String("listing_id", listingID),
			slog.String("error", err.Error()),
		)
	}
}
