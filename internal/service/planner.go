package service

import (
	"fmt"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/domain"
)

// EAN attribute identifier on the marketplace.
const attributeGTIN = "GTIN"

// BuildPlan expands a listing intent into a deterministic, ordered sequence
// of listing-creation jobs: the tier set (primary first, the other tier if
// requested), fanned out per tier into a catalog-linked job and/or a
// traditional job per the format selector.
//
// When the product is catalog-required, requested traditional jobs are
// suppressed and recorded as skips rather than errors, since the platform
// rejects or penalizes standalone listings of such products. The builder
// never mutates price or stock.
func BuildPlan(intent domain.ListingIntent, resolution *domain.Resolution) domain.Plan {
	var plan domain.Plan

	for _, tier := range intent.Tiers() {
		if intent.WantsCatalog() {
			plan.Jobs = append(plan.Jobs, catalogJob(intent, resolution, tier))
		}
		if intent.WantsTraditional() {
			if resolution.CatalogRequired {
				plan.Skips = append(plan.Skips, fmt.Sprintf(
					"%s: traditional listing skipped, product %s requires catalog listings",
					domain.JobLabel(tier, false), resolution.Product.ID,
				))
				continue
			}
			plan.Jobs = append(plan.Jobs, traditionalJob(intent, resolution, tier))
		}
	}

	return plan
}

// catalogJob builds a catalog-linked job: title and pictures are omitted on
// purpose, the platform inherits them from the catalog link.
func catalogJob(intent domain.ListingIntent, resolution *domain.Resolution, tier string) domain.ListingJob {
	return domain.ListingJob{
		Label:          domain.JobLabel(tier, true),
		CategoryID:     resolution.CategoryID,
		Price:          intent.Price,
		Quantity:       intent.Quantity,
		Tier:           tier,
		CatalogLinked:  true,
		CatalogProduct: resolution.Product.ID,
		Attributes:     eanAttribute(intent),
	}
}

// traditionalJob builds a standalone job: title and pictures are copied from
// the fetched product because nothing is inherited without a catalog link.
func traditionalJob(intent domain.ListingIntent, resolution *domain.Resolution, tier string) domain.ListingJob {
	return domain.ListingJob{
		Label:      domain.JobLabel(tier, false),
		CategoryID: resolution.CategoryID,
		Title:      resolution.Product.Name,
		Price:      intent.Price,
		Quantity:   intent.Quantity,
		Tier:       tier,
		Pictures:   resolution.Product.Pictures,
		Attributes: eanAttribute(intent),
	}
}

func eanAttribute(intent domain.ListingIntent) []domain.ProductAttribute {
	if intent.EAN == "" {
		return nil
	}
	return []domain.ProductAttribute{{ID: attributeGTIN, Value: intent.EAN}}
}
