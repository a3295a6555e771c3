package marketplace

import (
	"context"
	"fmt"
	"net/url"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/domain"
)

type productResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DomainID   string `json:"domain_id"`
	CategoryID string `json:"category_id"`
	Pictures   []struct {
		URL string `json:"url"`
	} `json:"pictures"`
	Settings struct {
		ListingStrategy string `json:"listing_strategy"`
	} `json:"settings"`
	Attributes []domain.ProductAttribute `json:"attributes"`
}

// GetProduct fetches a catalog product by its marketplace identifier.
func (c *Client) GetProduct(ctx context.Context, productID string) (*domain.CatalogProduct, error) {
	var resp productResponse
	if err := c.get(ctx, "/products/"+url.PathEscape(productID), &resp); err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}

	product := &domain.CatalogProduct{
		ID:              resp.ID,
		Name:            resp.Name,
		DomainID:        resp.DomainID,
		CategoryID:      resp.CategoryID,
		ListingStrategy: resp.Settings.ListingStrategy,
		Attributes:      resp.Attributes,
	}
	for _, p := range resp.Pictures {
		product.Pictures = append(product.Pictures, p.URL)
	}
	return product, nil
}

// SearchCatalogProducts searches the active catalog index by product code
// (EAN or GTIN) or free text. This is how a seller discovers the catalog
// product identifier a publication starts from.
func (c *Client) SearchCatalogProducts(ctx context.Context, query string) ([]domain.CatalogProduct, error) {
	var resp struct {
		Results []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			DomainID string `json:"domain_id"`
			Pictures []struct {
				URL string `json:"url"`
			} `json:"pictures"`
		} `json:"results"`
	}
	path := "/products/search?status=active&site_id=" + url.QueryEscape(c.siteID) + "&q=" + url.QueryEscape(query)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("catalog search %q: %w", query, err)
	}

	products := make([]domain.CatalogProduct, 0, len(resp.Results))
	for _, entry := range resp.Results {
		product := domain.CatalogProduct{
			ID:       entry.ID,
			Name:     entry.Name,
			DomainID: entry.DomainID,
		}
		for _, p := range entry.Pictures {
			product.Pictures = append(product.Pictures, p.URL)
		}
		products = append(products, product)
	}
	return products, nil
}

// DomainCategories fetches the category candidates registered for a catalog
// domain, in the directory's own order.
func (c *Client) DomainCategories(ctx context.Context, domainID string) ([]string, error) {
	var resp []struct {
		CategoryID string `json:"category_id"`
	}
	if err := c.get(ctx, "/catalog_domains/"+url.PathEscape(domainID)+"/categories", &resp); err != nil {
		return nil, fmt.Errorf("get domain categories %s: %w", domainID, err)
	}

	categories := make([]string, 0, len(resp))
	for _, entry := range resp {
		if entry.CategoryID != "" {
			categories = append(categories, entry.CategoryID)
		}
	}
	return categories, nil
}

// SearchSite runs a free-text search against the site index and returns the
// raw result entries.
func (c *Client) SearchSite(ctx context.Context, query string) ([]SearchResult, error) {
	var resp struct {
		Results []SearchResult `json:"results"`
	}
	path := "/sites/" + c.siteID + "/search?q=" + url.QueryEscape(query)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("site search %q: %w", query, err)
	}
	return resp.Results, nil
}

// SearchResult is one entry from the site search index.
type SearchResult struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	CategoryID string `json:"category_id"`
	SellerID   int64  `json:"seller_id,omitempty"`
}

// PredictCategory asks the domain-discovery endpoint for the most likely
// category of the given title. Returns the top prediction's category.
func (c *Client) PredictCategory(ctx context.Context, title string) (string, error) {
	var resp []struct {
		DomainID   string `json:"domain_id"`
		CategoryID string `json:"category_id"`
	}
	path := "/sites/" + c.siteID + "/domain_discovery/search?limit=1&q=" + url.QueryEscape(title)
	if err := c.get(ctx, path, &resp); err != nil {
		return "", fmt.Errorf("predict category for %q: %w", title, err)
	}
	if len(resp) == 0 || resp[0].CategoryID == "" {
		return "", nil
	}
	return resp[0].CategoryID, nil
}
