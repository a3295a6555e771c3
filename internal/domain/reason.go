package domain

// Reason classifies a marketplace rejection into a seller-facing category.
type Reason string

// Classified rejection reasons, ordered by precedence: when several signals
// apply to the same listing the highest one wins.
const (
	ReasonPriceLocked       Reason = "price-policy-locked"
	ReasonCatalogManaged    Reason = "catalog-managed"
	ReasonSuspendedOrBanned Reason = "suspended-or-banned"
	ReasonPendingCorrection Reason = "pending-correction"
	ReasonGenericPolicy     Reason = "generic-policy"
	ReasonUnknown           Reason = "unknown"
)

// Advice returns the seller-facing remediation message for a reason.
func (r Reason) Advice() string {
	switch r {
	case ReasonPriceLocked:
		return "the listing is part of a promotion or campaign and its price is locked; remove it from the promotion before updating"
	case ReasonCatalogManaged:
		return "the listing is catalog-linked and its price is managed by the platform"
	case ReasonSuspendedOrBanned:
		return "the listing is suspended or banned and cannot be updated; review the listing's health in the seller panel"
	case ReasonPendingCorrection:
		return "the listing has a pending correction that blocks updates; fix the flagged issues first"
	case ReasonGenericPolicy:
		return "the platform rejected the update for a policy reason"
	default:
		return "the platform rejected the update"
	}
}
