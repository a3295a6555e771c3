package domain

import "github.com/shopspring/decimal"

// Listing tags and sub-statuses the error classifier inspects.
const (
	TagCatalogListing = "catalog_listing"
	TagDealOfTheDay   = "deal_of_the_day"
	TagPriceLocked    = "price_locked"
	TagInPromotion    = "in_promotion"

	SubStatusSuspended = "suspended"
	SubStatusBanned    = "banned"
	SubStatusToFix     = "to_fix"
	SubStatusWarning   = "warning"
)

// Listing is a seller-owned marketplace entry as fetched from the platform.
type Listing struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Price         decimal.Decimal `json:"price"`
	CurrencyID    string          `json:"currency_id"`
	Tier          string          `json:"listing_type_id"`
	CategoryID    string          `json:"category_id"`
	Status        string          `json:"status"`
	SubStatus     []string        `json:"sub_status,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	CatalogLinked bool            `json:"catalog_listing"`
	Variations    []Variation     `json:"variations,omitempty"`
}

// Variation is a sub-entry of a listing carrying its own price, independent
// of the listing's root price field.
type Variation struct {
	ID    int64           `json:"id"`
	Price decimal.Decimal `json:"price"`
}

// HasVariations reports whether the listing's price lives on its variations.
// When true, the root price field must never be written directly.
func (l *Listing) HasVariations() bool {
	return len(l.Variations) > 0
}

// HasTag checks the listing's tag set for the given tag.
func (l *Listing) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasSubStatus checks the listing's sub-status set for the given value.
func (l *Listing) HasSubStatus(sub string) bool {
	for _, s := range l.SubStatus {
		if s == sub {
			return true
		}
	}
	return false
}

// PriceUpdate strategy identifiers.
const (
	StrategyRoot         = "root"
	StrategyPerVariation = "per_variation"
)
