package domain

import "github.com/shopspring/decimal"

// FeeQuote is the marketplace sale fee for a (price, tier, category) triple.
// Derived from the fee-schedule endpoint, never persisted.
type FeeQuote struct {
	Tier       string          `json:"tier"`
	CategoryID string          `json:"category_id"`
	Price      decimal.Decimal `json:"price"`
	Rate       decimal.Decimal `json:"rate"`
	Fixed      decimal.Decimal `json:"fixed"`
	Amount     decimal.Decimal `json:"amount"`
}
