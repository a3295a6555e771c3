package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/domain"
	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/repository"
	apperrors "github.com/MxSGameJPS/minhaloja-valorfinal/pkg/errors"
)

var (
	oneHundred = decimal.NewFromInt(100)
	two        = decimal.NewFromInt(2)
)

// CalculatorService runs price calculations against the marketplace fee
// schedule and records every run in the append-only calculation log.
type CalculatorService struct {
	market MarketplaceAPI
	repo   repository.CalculationRepository
	logger *slog.Logger
}

// NewCalculatorService creates the calculator service.
func NewCalculatorService(market MarketplaceAPI, repo repository.CalculationRepository, logger *slog.Logger) *CalculatorService {
	return &CalculatorService{market: market, repo: repo, logger: logger}
}

// CalculateInput holds the parameters for a price calculation.
type CalculateInput struct {
	SKU          string          `json:"sku" validate:"required"`
	CurrentPrice decimal.Decimal `json:"current_price" validate:"required"`
	Tier         string          `json:"tier" validate:"required,oneof=classic premium"`
	ShippingType string          `json:"shipping_type" validate:"required"`
	CategoryID   string          `json:"category_id,omitempty"`
	CostPrice    decimal.Decimal `json:"cost_price" validate:"required"`
	ProfitMargin decimal.Decimal `json:"profit_margin" validate:"required"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	OtherCosts   decimal.Decimal `json:"other_costs"`
}

// QuoteFee returns the marketplace sale fee for the given price and tier.
func (s *CalculatorService) QuoteFee(ctx context.Context, price decimal.Decimal, tierName, categoryID string) (*domain.FeeQuote, error) {
	if !price.IsPositive() {
		return nil, apperrors.InvalidInput("price must be greater than zero")
	}
	tier, ok := domain.TierFromName(tierName)
	if !ok {
		return nil, apperrors.InvalidInput("tier must be classic or premium")
	}
	return s.market.QuoteFee(ctx, price, tier, categoryID)
}

// Calculate derives the recommended sale price that yields the requested
// profit margin after the marketplace fee, shipping, taxes and other costs,
// then appends the run to the calculation log.
//
// All percentage inputs (margin, fee rate, tax rate) are expressed as whole
// percentages of the sale price. The fee schedule may also charge a fixed
// per-sale amount, which joins the fixed cost side. The recommended price
// solves
//
//	price = cost + shipping + other + fixed_fee + price*(margin + fee + tax)/100
//
// and the wholesale price is the same equation at half the margin.
func (s *CalculatorService) Calculate(ctx context.Context, input *CalculateInput) (*domain.PriceCalculation, error) {
	if input == nil {
		return nil, apperrors.InvalidInput("calculation input is required")
	}
	tier, ok := domain.TierFromName(input.Tier)
	if !ok {
		return nil, apperrors.InvalidInput("tier must be classic or premium")
	}
	if !input.CostPrice.IsPositive() {
		return nil, apperrors.InvalidInput("cost price must be greater than zero")
	}
	if input.ProfitMargin.IsNegative() {
		return nil, apperrors.InvalidInput("profit margin cannot be negative")
	}

	quote, err := s.market.QuoteFee(ctx, input.CurrentPrice, tier, input.CategoryID)
	if err != nil {
		return nil, err
	}

	base := input.CostPrice.Add(input.ShippingCost).Add(input.OtherCosts).Add(quote.Fixed)

	recommended, err := solvePrice(base, input.ProfitMargin, quote.Rate, input.TaxRate)
	if err != nil {
		return nil, err
	}
	wholesale, err := solvePrice(base, input.ProfitMargin.Div(two), quote.Rate, input.TaxRate)
	if err != nil {
		return nil, err
	}

	calc := &domain.PriceCalculation{
		SKU:              input.SKU,
		CurrentPrice:     input.CurrentPrice,
		Tier:             tier,
		ShippingType:     input.ShippingType,
		CostPrice:        input.CostPrice,
		ProfitMargin:     input.ProfitMargin,
		MarketplaceFee:   quote.Amount,
		ShippingCost:     input.ShippingCost,
		TaxRate:          input.TaxRate,
		OtherCosts:       input.OtherCosts,
		Profit:           recommended.Mul(input.ProfitMargin).Div(oneHundred).Round(2),
		RecommendedPrice: recommended,
		WholesalePrice:   wholesale,
	}

	if err := s.repo.Save(ctx, calc); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "price calculation recorded",
		slog.String("sku", input.SKU),
		slog.String("recommended_price", recommended.String()),
	)
	return calc, nil
}

// ListCalculations returns recent calculation log entries, optionally
// filtered by SKU.
func (s *CalculatorService) ListCalculations(ctx context.Context, sku string, limit int) ([]domain.PriceCalculation, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if sku != "" {
		return s.repo.ListBySKU(ctx, sku, limit)
	}
	return s.repo.ListRecent(ctx, limit)
}

// solvePrice inverts the margin equation: every percentage cut scales with
// the sale price, so the fixed costs are divided by what is left of each
// earned unit of currency.
func solvePrice(base, margin, feeRate, taxRate decimal.Decimal) (decimal.Decimal, error) {
	cut := margin.Add(feeRate).Add(taxRate).Div(oneHundred)
	remainder := decimal.NewFromInt(1).Sub(cut)
	if !remainder.IsPositive() {
		return decimal.Zero, apperrors.InvalidInput("margin, fee and tax rates leave no room in the sale price")
	}
	return base.Div(remainder).Round(2), nil
}
