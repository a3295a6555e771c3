package domain

// Listing strategy values returned by the marketplace product settings.
const (
	ListingStrategyCatalogRequired = "catalog_required"
	ListingStrategyOpen            = "open"
)

// CatalogProduct is the marketplace-curated canonical product record.
// Fetched from the marketplace, never persisted.
type CatalogProduct struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	DomainID        string             `json:"domain_id"`
	CategoryID      string             `json:"category_id,omitempty"`
	Pictures        []string           `json:"pictures,omitempty"`
	ListingStrategy string             `json:"listing_strategy,omitempty"`
	Attributes      []ProductAttribute `json:"attributes,omitempty"`
}

// ProductAttribute is a name/value pair on a catalog product.
type ProductAttribute struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value_name,omitempty"`
}

// CatalogRequired reports whether the platform expects listings of this
// product to be catalog-linked.
func (p *CatalogProduct) CatalogRequired() bool {
	return p.ListingStrategy == ListingStrategyCatalogRequired
}

// Resolution is the outcome of category resolution for a catalog product:
// the category the cascade settled on, which step produced it, and the
// fetched product so downstream consumers do not refetch.
type Resolution struct {
	CategoryID      string          `json:"category_id"`
	Source          string          `json:"source"`
	CatalogRequired bool            `json:"catalog_required"`
	Product         *CatalogProduct `json:"product"`
}

// Category resolution sources, in cascade order.
const (
	ResolvedFromProduct   = "product_category"
	ResolvedFromDomain    = "domain_directory"
	ResolvedFromSearch    = "site_search"
	ResolvedFromPredictor = "category_predictor"
)
