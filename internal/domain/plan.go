package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ListingJob is one concrete listing-creation call. Immutable; owned by the
// publisher for its execution lifetime.
type ListingJob struct {
	Label          string             `json:"label"`
	CategoryID     string             `json:"category_id"`
	Title          string             `json:"title,omitempty"`
	Price          decimal.Decimal    `json:"price"`
	Quantity       int                `json:"quantity"`
	Tier           string             `json:"tier"`
	CatalogLinked  bool               `json:"catalog_linked"`
	CatalogProduct string             `json:"catalog_product_id,omitempty"`
	Pictures       []string           `json:"pictures,omitempty"`
	Attributes     []ProductAttribute `json:"attributes,omitempty"`
}

// Plan is the deterministic expansion of one ListingIntent: the jobs to
// execute plus any traditional jobs suppressed by a catalog-required product.
type Plan struct {
	Jobs  []ListingJob `json:"jobs"`
	Skips []string     `json:"skips,omitempty"`
}

// JobLabel builds the human-readable label a job is reported under in the
// publish tally, e.g. "gold_special/catalog".
func JobLabel(tier string, catalogLinked bool) string {
	format := "traditional"
	if catalogLinked {
		format = "catalog"
	}
	return fmt.Sprintf("%s/%s", tier, format)
}
