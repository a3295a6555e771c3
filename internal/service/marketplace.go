package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/domain"
	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/marketplace"
)

// MarketplaceAPI is the marketplace boundary as consumed by the services.
// *marketplace.Client satisfies it.
type MarketplaceAPI interface {
	GetProduct(ctx context.Context, productID string) (*domain.CatalogProduct, error)
	SearchCatalogProducts(ctx context.Context, query string) ([]domain.CatalogProduct, error)
	DomainCategories(ctx context.Context, domainID string) ([]string, error)
	SearchSite(ctx context.Context, query string) ([]marketplace.SearchResult, error)
	PredictCategory(ctx context.Context, title string) (string, error)

	CreateListing(ctx context.Context, job domain.ListingJob) (*domain.CreatedListing, error)
	GetListing(ctx context.Context, listingID string) (*domain.Listing, error)
	UpdateRootPrice(ctx context.Context, listingID string, price decimal.Decimal) error
	UpdateVariationPrices(ctx context.Context, listingID string, variationIDs []int64, price decimal.Decimal) error

	QuoteFee(ctx context.Context, price decimal.Decimal, tier, categoryID string) (*domain.FeeQuote, error)
	SearchSellerItems(ctx context.Context, query string, bySKU bool) ([]string, error)
	SearchSiteBySeller(ctx context.Context, query string) ([]marketplace.SearchResult, error)
}
