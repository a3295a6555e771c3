package domain

import "github.com/shopspring/decimal"

// Sales tier identifiers as the marketplace knows them.
const (
	TierClassic = "gold_special"
	TierPremium = "gold_pro"
)

// Presentation format selectors for a publish request.
const (
	FormatCatalogOnly     = "catalog_only"
	FormatTraditionalOnly = "traditional_only"
	FormatBoth            = "both"
)

// ListingIntent is a seller's publish request: one catalog product reference
// fanned out into concrete listing-creation jobs. Built once per request,
// never mutated.
type ListingIntent struct {
	ProductID       string          `json:"product_id"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int             `json:"quantity"`
	Tier            string          `json:"tier"`
	CreateOtherTier bool            `json:"create_other_tier"`
	Format          string          `json:"format"`
	EAN             string          `json:"ean,omitempty"`
}

// Tiers returns the ordered tier set for the intent, primary tier first.
func (i ListingIntent) Tiers() []string {
	tiers := []string{i.Tier}
	if i.CreateOtherTier {
		tiers = append(tiers, OtherTier(i.Tier))
	}
	return tiers
}

// OtherTier returns the opposite sales tier.
func OtherTier(tier string) string {
	if tier == TierClassic {
		return TierPremium
	}
	return TierClassic
}

// IsValidTier checks whether the given tier identifier is known.
func IsValidTier(tier string) bool {
	return tier == TierClassic || tier == TierPremium
}

// Seller-facing tier names accepted by the API.
const (
	TierNameClassic = "classic"
	TierNamePremium = "premium"
)

// TierFromName maps a seller-facing tier name to the marketplace tier
// identifier.
func TierFromName(name string) (string, bool) {
	switch name {
	case TierNameClassic:
		return TierClassic, true
	case TierNamePremium:
		return TierPremium, true
	default:
		return "", false
	}
}

// TierName maps a marketplace tier identifier back to its seller-facing name.
func TierName(tier string) string {
	if tier == TierPremium {
		return TierNamePremium
	}
	return TierNameClassic
}

// IsValidFormat checks whether the given format selector is known.
func IsValidFormat(format string) bool {
	return format == FormatCatalogOnly || format == FormatTraditionalOnly || format == FormatBoth
}

// WantsCatalog reports whether the format selector asks for a catalog-linked job.
func (i ListingIntent) WantsCatalog() bool {
	return i.Format == FormatCatalogOnly || i.Format == FormatBoth
}

// WantsTraditional reports whether the format selector asks for a traditional job.
func (i ListingIntent) WantsTraditional() bool {
	return i.Format == FormatTraditionalOnly || i.Format == FormatBoth
}
