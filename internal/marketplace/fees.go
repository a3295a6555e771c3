package marketplace

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/domain"
)

type listingPriceResponse struct {
	ListingTypeID string          `json:"listing_type_id"`
	SaleFeeAmount decimal.Decimal `json:"sale_fee_amount"`
	SaleFeeDetails struct {
		PercentageFee decimal.Decimal `json:"percentage_fee"`
		FixedFee      decimal.Decimal `json:"fixed_fee"`
	} `json:"sale_fee_details"`
}

// QuoteFee asks the fee schedule for the sale fee the platform would charge
// on a listing at the given price, tier and category.
func (c *Client) QuoteFee(ctx context.Context, price decimal.Decimal, tier, categoryID string) (*domain.FeeQuote, error) {
	query := url.Values{}
	query.Set("price", price.String())
	query.Set("listing_type_id", tier)
	if categoryID != "" {
		query.Set("category_id", categoryID)
	}

	var resp []listingPriceResponse
	path := "/sites/" + c.siteID + "/listing_prices?" + query.Encode()
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("quote fee: %w", err)
	}

	for _, entry := range resp {
		if entry.ListingTypeID == tier {
			return &domain.FeeQuote{
				Tier:       tier,
				CategoryID: categoryID,
				Price:      price,
				Rate:       entry.SaleFeeDetails.PercentageFee,
				Fixed:      entry.SaleFeeDetails.FixedFee,
				Amount:     entry.SaleFeeAmount,
			}, nil
		}
	}
	return nil, fmt.Errorf("quote fee: no schedule entry for tier %s", tier)
}
