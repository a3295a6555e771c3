package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/domain"
)

// Fixed listing attributes for this seller's site. The platform requires them
// on every create call.
const (
	currencyID = "BRL"
	buyingMode = "buy_it_now"
	condition  = "new"
	shipMode   = "me2"
)

type createItemRequest struct {
	Title             string          `json:"title,omitempty"`
	CategoryID        string          `json:"category_id"`
	Price             float64         `json:"price"`
	CurrencyID        string          `json:"currency_id"`
	AvailableQuantity int             `json:"available_quantity"`
	BuyingMode        string          `json:"buying_mode"`
	Condition         string          `json:"condition"`
	ListingTypeID     string          `json:"listing_type_id"`
	CatalogListing    bool            `json:"catalog_listing,omitempty"`
	CatalogProductID  string          `json:"catalog_product_id,omitempty"`
	Pictures          []itemPicture   `json:"pictures,omitempty"`
	Attributes        []itemAttribute `json:"attributes,omitempty"`
	Shipping          itemShipping    `json:"shipping"`
}

type itemPicture struct {
	Source string `json:"source"`
}

type itemAttribute struct {
	ID        string `json:"id"`
	ValueName string `json:"value_name"`
}

type itemShipping struct {
	Mode string `json:"mode"`
}

type createItemResponse struct {
	ID        string `json:"id"`
	Permalink string `json:"permalink"`
}

// CreateListing submits one listing-creation job to the marketplace and
// returns the created listing's identifiers.
func (c *Client) CreateListing(ctx context.Context, job domain.ListingJob) (*domain.CreatedListing, error) {
	payload := createItemRequest{
		Title:             job.Title,
		CategoryID:        job.CategoryID,
		Price:             job.Price.InexactFloat64(),
		CurrencyID:        currencyID,
		AvailableQuantity: job.Quantity,
		BuyingMode:        buyingMode,
		Condition:         condition,
		ListingTypeID:     job.Tier,
		CatalogListing:    job.CatalogLinked,
		CatalogProductID:  job.CatalogProduct,
		Shipping:          itemShipping{Mode: shipMode},
	}
	for _, pic := range job.Pictures {
		payload.Pictures = append(payload.Pictures, itemPicture{Source: pic})
	}
	for _, attr := range job.Attributes {
		payload.Attributes = append(payload.Attributes, itemAttribute{ID: attr.ID, ValueName: attr.Value})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal create request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/items", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var resp createItemResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}

	return &domain.CreatedListing{
		Label:     job.Label,
		ListingID: resp.ID,
		Permalink: resp.Permalink,
	}, nil
}

// GetListing fetches an existing listing including its variations, status,
// sub-status and tags.
func (c *Client) GetListing(ctx context.Context, listingID string) (*domain.Listing, error) {
	var listing domain.Listing
	if err := c.get(ctx, "/items/"+url.PathEscape(listingID), &listing); err != nil {
		return nil, fmt.Errorf("get listing %s: %w", listingID, err)
	}
	return &listing, nil
}

// UpdateRootPrice writes the listing's flat root price field. Must not be
// used on a listing that has variations.
func (c *Client) UpdateRootPrice(ctx context.Context, listingID string, price decimal.Decimal) error {
	payload := struct {
		Price float64 `json:"price"`
	}{Price: price.InexactFloat64()}
	return c.putItem(ctx, listingID, payload)
}

// UpdateVariationPrices sets every one of the listing's variations to the
// given price in a single update call.
func (c *Client) UpdateVariationPrices(ctx context.Context, listingID string, variationIDs []int64, price decimal.Decimal) error {
	type variationUpdate struct {
		ID    int64   `json:"id"`
		Price float64 `json:"price"`
	}
	payload := struct {
		Variations []variationUpdate `json:"variations"`
	}{Variations: make([]variationUpdate, len(variationIDs))}
	for i, id := range variationIDs {
		payload.Variations[i] = variationUpdate{ID: id, Price: price.InexactFloat64()}
	}
	return c.putItem(ctx, listingID, payload)
}

func (c *Client) putItem(ctx context.Context, listingID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal update request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/items/"+url.PathEscape(listingID), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(ctx, req, nil)
}

// SearchSellerItems queries the seller's own item index. With bySKU true the
// query is matched against registered seller SKUs, otherwise as free text.
// Returns listing IDs in index order.
func (c *Client) SearchSellerItems(ctx context.Context, query string, bySKU bool) ([]string, error) {
	param := "q"
	if bySKU {
		param = "seller_sku"
	}
	var resp struct {
		Results []string `json:"results"`
	}
	path := "/users/" + url.PathEscape(c.sellerID) + "/items/search?" + param + "=" + url.QueryEscape(query)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("seller items search %q: %w", query, err)
	}
	return resp.Results, nil
}

// SearchSiteBySeller runs a site search restricted to this seller's listings.
func (c *Client) SearchSiteBySeller(ctx context.Context, query string) ([]SearchResult, error) {
	var resp struct {
		Results []SearchResult `json:"results"`
	}
	path := "/sites/" + c.siteID + "/search?seller_id=" + url.QueryEscape(c.sellerID) +
		"&q=" + url.QueryEscape(query)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("seller site search %q: %w", query, err)
	}
	return resp.Results, nil
}
