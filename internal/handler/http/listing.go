package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/service"
	"github.com/MxSGameJPS/minhaloja-valorfinal/pkg/httputil"
	"github.com/MxSGameJPS/minhaloja-valorfinal/pkg/validator"
)

// ListingHandler handles HTTP requests for listing endpoints.
type ListingHandler struct {
	service *service.ListingService
	logger  *slog.Logger
}

// NewListingHandler creates a new listing HTTP handler.
func NewListingHandler(svc *service.ListingService, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// PublishListingsRequest is the JSON request body for publishing listings.
type PublishListingsRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	Price           decimal.Decimal `json:"price" validate:"required"`
	Quantity        int             `json:"quantity" validate:"required,gt=0"`
	Tier            string          `json:"tier" validate:"required,oneof=classic premium"`
	CreateOtherTier bool            `json:"create_other_tier"`
	Format          string          `json:"format" validate:"required,oneof=catalog_only traditional_only both"`
	EAN             string          `json:"ean"`
}

// UpdatePriceRequest is the JSON request body for a price update.
type UpdatePriceRequest struct {
	Price decimal.Decimal `json:"price" validate:"required"`
}

// --- Handlers ---

// PublishListings handles POST /api/v1/listings
func (h *ListingHandler) PublishListings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req PublishListingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.PublishListingsInput{
		ProductID:       req.ProductID,
		Price:           req.Price,
		Quantity:        req.Quantity,
		Tier:            req.Tier,
		CreateOtherTier: req.CreateOtherTier,
		Format:          req.Format,
		EAN:             req.EAN,
	}

	tally, err := h.service.PublishListings(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	status := http.StatusCreated
	if len(tally.Created) == 0 {
		// Nothing was created: every job failed or was skipped.
		status = http.StatusOK
	}
	httputil.WriteJSON(w, status, httputil.Response{Data: tally})
}

// UpdatePrice handles PUT /api/v1/listings/{id}/price
func (h *ListingHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "listing id is required"},
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req UpdatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.UpdatePrice(r.Context(), id, req.Price); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"success": true, "listing_id": id, "price": req.Price},
	})
}

// SearchCatalog handles GET /api/v1/catalog/search?q=
func (h *ListingHandler) SearchCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "q query parameter is required"},
		})
		return
	}

	results, err := h.service.SearchCatalog(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"query": q, "results": results},
	})
}

// Lookup handles GET /api/v1/listings/lookup?sku=
func (h *ListingHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	sku := r.URL.Query().Get("sku")
	if sku == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "sku query parameter is required"},
		})
		return
	}

	listingID, err := h.service.LookupBySKU(r.Context(), sku)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"sku": sku, "listing_id": listingID},
	})
}
