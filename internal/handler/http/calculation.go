package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/service"
	"github.com/MxSGameJPS/minhaloja-valorfinal/pkg/httputil"
	"github.com/MxSGameJPS/minhaloja-valorfinal/pkg/validator"
)

// CalculationHandler handles HTTP requests for price-calculation endpoints.
type CalculationHandler struct {
	service *service.CalculatorService
	logger  *slog.Logger
}

// NewCalculationHandler creates a new calculation HTTP handler.
func NewCalculationHandler(svc *service.CalculatorService, logger *slog.Logger) *CalculationHandler {
	return &CalculationHandler{
		service: svc,
		logger:  logger,
	}
}

// CalculateRequest is the JSON request body for a price calculation.
type CalculateRequest struct {
	SKU          string          `json:"sku" validate:"required"`
	CurrentPrice decimal.Decimal `json:"current_price" validate:"required"`
	Tier         string          `json:"tier" validate:"required,oneof=classic premium"`
	ShippingType string          `json:"shipping_type" validate:"required"`
	CategoryID   string          `json:"category_id"`
	CostPrice    decimal.Decimal `json:"cost_price" validate:"required"`
	ProfitMargin decimal.Decimal `json:"profit_margin" validate:"required"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	OtherCosts   decimal.Decimal `json:"other_costs"`
}

// Calculate handles POST /api/v1/calculations
func (h *CalculationHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req CalculateRequest
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

	input := &service.CalculateInput{
		SKU:          req.SKU,
		CurrentPrice: req.CurrentPrice,
		Tier:         req.Tier,
		ShippingType: req.ShippingType,
		CategoryID:   req.CategoryID,
		CostPrice:    req.CostPrice,
		ProfitMargin: req.ProfitMargin,
		ShippingCost: req.ShippingCost,
		TaxRate:      req.TaxRate,
		OtherCosts:   req.OtherCosts,
	}

	calc, err := h.service.Calculate(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: calc})
}

// List handles GET /api/v1/calculations?sku=&limit=
func (h *CalculationHandler) List(w http.ResponseWriter, r *http.Request) {
	sku := r.URL.Query().Get("sku")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "limit must be an integer"},
			})
			return
		}
		limit = parsed
	}

	calcs, err := h.service.ListCalculations(r.Context(), sku, limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: calcs})
}

// QuoteFee handles GET /api/v1/fees/quote?price=&tier=&category_id=
func (h *CalculationHandler) QuoteFee(w http.ResponseWriter, r *http.Request) {
	rawPrice := r.URL.Query().Get("price")
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "price must be a decimal number"},
		})
		return
	}

	tier := r.URL.Query().Get("tier")
	if tier == "" {
		tier = "classic"
	}

	quote, err := h.service.QuoteFee(r.Context(), price, tier, r.URL.Query().Get("category_id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: quote})
}
