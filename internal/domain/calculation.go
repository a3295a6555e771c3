package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceCalculation is one entry in the append-only price-calculation log:
// the inputs and outputs of a seller's pricing run, kept for later reporting.
type PriceCalculation struct {
	ID               int64           `json:"id"`
	SKU              string          `json:"sku"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	Tier             string          `json:"tier"`
	ShippingType     string          `json:"shipping_type"`
	CostPrice        decimal.Decimal `json:"cost_price"`
	ProfitMargin     decimal.Decimal `json:"profit_margin"`
	MarketplaceFee   decimal.Decimal `json:"marketplace_fee"`
	ShippingCost     decimal.Decimal `json:"shipping_cost"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	OtherCosts       decimal.Decimal `json:"other_costs"`
	Profit           decimal.Decimal `json:"profit"`
	RecommendedPrice decimal.Decimal `json:"recommended_price"`
	WholesalePrice   decimal.Decimal `json:"wholesale_price"`
	CreatedAt        time.Time       `json:"created_at"`
}
