package service

import (
	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/domain"
	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/marketplace"
)

// Classify maps a marketplace rejection into a seller-facing reason by
// inspecting the listing's tags and sub-status alongside the error payload.
// The same HTTP status covers several distinct seller situations, so status
// alone is never enough.
//
// Precedence when multiple signals apply, highest first: price-policy-locked,
// catalog-managed, suspended-or-banned, pending-correction, generic-policy,
// unknown.
func Classify(listing *domain.Listing, apiErr *marketplace.APIError) domain.Reason {
	if listing != nil {
		if listing.HasTag(domain.TagPriceLocked) ||
			listing.HasTag(domain.TagDealOfTheDay) ||
			listing.HasTag(domain.TagInPromotion) {
			return domain.ReasonPriceLocked
		}
		if listing.CatalogLinked || listing.HasTag(domain.TagCatalogListing) {
			return domain.ReasonCatalogManaged
		}
		if listing.HasSubStatus(domain.SubStatusSuspended) || listing.HasSubStatus(domain.SubStatusBanned) {
			return domain.ReasonSuspendedOrBanned
		}
		if listing.HasSubStatus(domain.SubStatusToFix) || listing.HasSubStatus(domain.SubStatusWarning) {
			return domain.ReasonPendingCorrection
		}
	}

	if apiErr != nil {
		if apiErr.CauseCodeContains("deal") || apiErr.CauseCodeContains("promotion") ||
			apiErr.CauseCodeContains("price_locked") {
			return domain.ReasonPriceLocked
		}
		if apiErr.CauseCodeContains("catalog") {
			return domain.ReasonCatalogManaged
		}
		if apiErr.IsPolicy() {
			return domain.ReasonGenericPolicy
		}
	}

	return domain.ReasonUnknown
}
