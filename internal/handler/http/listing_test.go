package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/domain"
	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/marketplace"
	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/service"
	apperrors "github.com/MxSGameJPS/minhaloja-valorfinal/pkg/errors"
)

// --- Stub Marketplace API ---

// stubMarketplace implements service.MarketplaceAPI with overridable
// functions; unset calls fail the test path with a not-implemented error.
type stubMarketplace struct {
	getProduct           func(ctx context.Context, productID string) (*domain.CatalogProduct, error)
	searchCatalog        func(ctx context.Context, query string) ([]domain.CatalogProduct, error)
	domainCategories     func(ctx context.Context, domainID string) ([]string, error)
	searchSite           func(ctx context.Context, query string) ([]marketplace.SearchResult, error)
	predictCategory      func(ctx context.Context, title string) (string, error)
	createListing        func(ctx context.Context, job domain.ListingJob) (*domain.CreatedListing, error)
	getListing           func(ctx context.Context, listingID string) (*domain.Listing, error)
	updateRootPrice      func(ctx context.Context, listingID string, price decimal.Decimal) error
	updateVariationPrice func(ctx context.Context, listingID string, variationIDs []int64, price decimal.Decimal) error
	quoteFee             func(ctx context.Context, price decimal.Decimal, tier, categoryID string) (*domain.FeeQuote, error)
	searchSellerItems    func(ctx context.Context, query string, bySKU bool) ([]string, error)
	searchSiteBySeller   func(ctx context.Context, query string) ([]marketplace.SearchResult, error)
}

func (s *stubMarketplace) GetProduct(ctx context.Context, productID string) (*domain.CatalogProduct, error) {
	if s.getProduct == nil {
		return nil, apperrors.Internal(nil)
	}
	return s.getProduct(ctx, productID)
}

func (s *stubMarketplace) SearchCatalogProducts(ctx context.Context, query string) ([]domain.CatalogProduct, error) {
	if s.searchCatalog == nil {
		return nil, nil
	}
	return s.searchCatalog(ctx, query)
}

func (s *stubMarketplace) DomainCategories(ctx context.Context, domainID string) ([]string, error) {
	if s.domainCategories == nil {
		return nil, nil
	}
	return s.domainCategories(ctx, domainID)
}

func (s *stubMarketplace) SearchSite(ctx context.Context, query string) ([]marketplace.SearchResult, error) {
	if s.searchSite == nil {
		return nil, nil
	}
	return s.searchSite(ctx, query)
}

func (s *stubMarketplace) PredictCategory(ctx context.Context, title string) (string, error) {
	if s.predictCategory == nil {
		return "", nil
	}
	return s.predictCategory(ctx, title)
}

func (s *stubMarketplace) CreateListing(ctx context.Context, job domain.ListingJob) (*domain.CreatedListing, error) {
	if s.createListing == nil {
		return nil, apperrors.Internal(nil)
	}
	return s.createListing(ctx, job)
}

func (s *stubMarketplace) GetListing(ctx context.Context, listingID string) (*domain.Listing, error) {
	if s.getListing == nil {
		return nil, apperrors.Internal(nil)
	}
	return s.getListing(ctx, listingID)
}

func (s *stubMarketplace) UpdateRootPrice(ctx context.Context, listingID string, price decimal.Decimal) error {
	if s.updateRootPrice == nil {
		return apperrors.Internal(nil)
	}
	return s.updateRootPrice(ctx, listingID, price)
}

func (s *stubMarketplace) UpdateVariationPrices(ctx context.Context, listingID string, variationIDs []int64, price decimal.Decimal) error {
	if s.updateVariationPrice == nil {
		return apperrors.Internal(nil)
	}
	return s.updateVariationPrice(ctx, listingID, variationIDs, price)
}

func (s *stubMarketplace) QuoteFee(ctx context.Context, price decimal.Decimal, tier, categoryID string) (*domain.FeeQuote, error) {
	if s.quoteFee == nil {
		return nil, apperrors.Internal(nil)
	}
	return s.quoteFee(ctx, price, tier, categoryID)
}

func (s *stubMarketplace) SearchSellerItems(ctx context.Context, query string, bySKU bool) ([]string, error) {
	if s.searchSellerItems == nil {
		return nil, nil
	}
	return s.searchSellerItems(ctx, query, bySKU)
}

func (s *stubMarketplace) SearchSiteBySeller(ctx context.Context, query string) ([]marketplace.SearchResult, error) {
	if s.searchSiteBySeller == nil {
		return nil, nil
	}
	return s.searchSiteBySeller(ctx, query)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newListingRouter(market service.MarketplaceAPI) http.Handler {
	logger := newTestLogger()
	svc := service.NewListingService(
		service.NewCategoryResolver(market, logger),
		service.NewPublisher(market, logger, 0),
		service.NewPriceReconciler(market, logger),
		market,
		nil,
		logger,
	)
	h := NewListingHandler(svc, logger)

	r := chi.NewRouter()
	r.Route("/api/v1/listings", func(r chi.Router) {
		r.Post("/", h.PublishListings)
		r.Get("/lookup", h.Lookup)
		r.Put("/{id}/price", h.UpdatePrice)
	})
	r.Get("/api/v1/catalog/search", h.SearchCatalog)
	return r
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// --- Tests ---

func TestPublishListings_Created(t *testing.T) {
	market := &stubMarketplace{
		getProduct: func(ctx context.Context, productID string) (*domain.CatalogProduct, error) {
			return &domain.CatalogProduct{
				ID:         productID,
				Name:       "Wireless Mouse",
				CategoryID: "MLB1000",
				Pictures:   []string{"https://img.example.com/a.jpg"},
			}, nil
		},
		createListing: func(ctx context.Context, job domain.ListingJob) (*domain.CreatedListing, error) {
			return &domain.CreatedListing{Label: job.Label, ListingID: "MLB999"}, nil
		},
	}

	body := `{"product_id": "MLB-PROD-001", "price": "149.90", "quantity": 10, "tier": "classic", "format": "both"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newListingRouter(market).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp["data"].(map[string]any)
	assert.Len(t, data["created"], 2)
	assert.Empty(t, data["errors"])
}

func TestPublishListings_NothingCreatedReturnsOK(t *testing.T) {
	market := &stubMarketplace{
		getProduct: func(ctx context.Context, productID string) (*domain.CatalogProduct, error) {
			return &domain.CatalogProduct{ID: productID, Name: "Mouse", CategoryID: "MLB1000"}, nil
		},
		createListing: func(ctx context.Context, job domain.ListingJob) (*domain.CreatedListing, error) {
			return nil, &marketplace.APIError{Status: 403, Code: "forbidden", Message: "blocked"}
		},
	}

	body := `{"product_id": "MLB-PROD-001", "price": "149.90", "quantity": 10, "tier": "classic", "format": "catalog_only"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newListingRouter(market).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp["data"].(map[string]any)
	assert.Empty(t, data["created"])
	assert.Len(t, data["errors"], 1)
}

func TestPublishListings_ValidationError(t *testing.T) {
	body := `{"product_id": "MLB-PROD-001", "price": "149.90", "quantity": 10, "tier": "gold", "format": "both"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newListingRouter(&stubMarketplace{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.NotNil(t, resp["error"])
}

func TestPublishListings_MalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	newListingRouter(&stubMarketplace{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublishListings_UnresolvedCategory(t *testing.T) {
	market := &stubMarketplace{
		getProduct: func(ctx context.Context, productID string) (*domain.CatalogProduct, error) {
			return &domain.CatalogProduct{ID: productID, Name: "mystery"}, nil
		},
	}

	body := `{"product_id": "MLB-PROD-001", "price": "149.90", "quantity": 10, "tier": "classic", "format": "both"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newListingRouter(market).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	errBody := resp["error"].(map[string]any)
	assert.Equal(t, "CATEGORY_UNRESOLVED", errBody["code"])
}

func TestUpdatePrice(t *testing.T) {
	market := &stubMarketplace{
		getListing: func(ctx context.Context, listingID string) (*domain.Listing, error) {
			return &domain.Listing{ID: listingID}, nil
		},
		updateRootPrice: func(ctx context.Context, listingID string, price decimal.Decimal) error {
			assert.Equal(t, "MLB111", listingID)
			assert.True(t, price.Equal(decimal.RequireFromString("129.90")))
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/listings/MLB111/price", strings.NewReader(`{"price": "129.90"}`))
	rec := httptest.NewRecorder()

	newListingRouter(market).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp["data"].(map[string]any)
	assert.Equal(t, true, data["success"])
	assert.Equal(t, "MLB111", data["listing_id"])
}

func TestUpdatePrice_PolicyRejection(t *testing.T) {
	market := &stubMarketplace{
		getListing: func(ctx context.Context, listingID string) (*domain.Listing, error) {
			return &domain.Listing{ID: listingID, Tags: []string{domain.TagPriceLocked}}, nil
		},
		updateRootPrice: func(ctx context.Context, listingID string, price decimal.Decimal) error {
			return &marketplace.APIError{Status: http.StatusLocked, Code: "locked", Message: "price locked"}
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/listings/MLB111/price", strings.NewReader(`{"price": "129.90"}`))
	rec := httptest.NewRecorder()

	newListingRouter(market).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	errBody := resp["error"].(map[string]any)
	assert.Equal(t, "price-policy-locked", errBody["code"])
}

func TestLookup(t *testing.T) {
	market := &stubMarketplace{
		searchSellerItems: func(ctx context.Context, query string, bySKU bool) ([]string, error) {
			if bySKU {
				return []string{"MLB111"}, nil
			}
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/lookup?sku=SKU-42", http.NoBody)
	rec := httptest.NewRecorder()

	newListingRouter(market).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "MLB111", data["listing_id"])
	assert.Equal(t, "SKU-42", data["sku"])
}

func TestSearchCatalog(t *testing.T) {
	market := &stubMarketplace{
		searchCatalog: func(ctx context.Context, query string) ([]domain.CatalogProduct, error) {
			assert.Equal(t, "7891234567890", query)
			return []domain.CatalogProduct{
				{ID: "MLB-PROD-001", Name: "Wireless Mouse", DomainID: "MLB-MICE"},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/search?q=7891234567890", http.NoBody)
	rec := httptest.NewRecorder()

	newListingRouter(market).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "7891234567890", data["query"])
	results := data["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "MLB-PROD-001", results[0].(map[string]any)["id"])
}

func TestSearchCatalog_MissingQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/search", http.NoBody)
	rec := httptest.NewRecorder()

	newListingRouter(&stubMarketplace{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchCatalog_UpstreamError(t *testing.T) {
	market := &stubMarketplace{
		searchCatalog: func(ctx context.Context, query string) ([]domain.CatalogProduct, error) {
			return nil, &marketplace.APIError{Status: http.StatusInternalServerError, Code: "internal_error", Message: "index down"}
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/search?q=789", http.NoBody)
	rec := httptest.NewRecorder()

	newListingRouter(market).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLookup_MissingSKU(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/lookup", http.NoBody)
	rec := httptest.NewRecorder()

	newListingRouter(&stubMarketplace{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLookup_NotFound(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/lookup?sku=SKU-404", http.NoBody)
	rec := httptest.NewRecorder()

	newListingRouter(&stubMarketplace{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
