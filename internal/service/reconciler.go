package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/domain"
	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/marketplace"
	apperrors "github.com/MxSGameJPS/minhaloja-valorfinal/pkg/errors"
)

// PriceReconciler updates the price of an existing listing, dispatching on
// the listing's shape: variations present means every variation gets the new
// price, otherwise the flat root price field is written.
//
// When a per-variation write is rejected with a structural or policy error,
// exactly one retry with the root strategy is attempted. Any further failure
// is terminal; this is a synchronous user-facing operation with no backoff.
type PriceReconciler struct {
	market MarketplaceAPI
	logger *slog.Logger
}

// NewPriceReconciler creates a price reconciler.
func NewPriceReconciler(market MarketplaceAPI, logger *slog.Logger) *PriceReconciler {
	return &PriceReconciler{market: market, logger: logger}
}

// UpdatePrice applies newPrice to the listing and reports the strategy that
// ultimately succeeded.
func (r *PriceReconciler) UpdatePrice(ctx context.Context, listingID string, newPrice decimal.Decimal) (string, error) {
	if !newPrice.IsPositive() {
		return "", apperrors.InvalidInput("price must be greater than zero")
	}

	listing, err := r.market.GetListing(ctx, listingID)
	if err != nil {
		return "", err
	}

	strategy := domain.StrategyRoot
	if listing.HasVariations() {
		strategy = domain.StrategyPerVariation
	}

	err = r.apply(ctx, listing, strategy, newPrice)
	if err == nil {
		r.logger.InfoContext(ctx, "listing price updated",
			slog.String("listing_id", listingID),
			slog.String("strategy", strategy),
			slog.String("price", newPrice.String()),
		)
		return strategy, nil
	}

	apiErr, ok := marketplace.AsAPIError(err)
	if !ok {
		return "", err
	}

	// A rejected per-variation write gets a single root-strategy retry; some
	// listing shapes only accept the flat field. A rejected root write is
	// terminal.
	if strategy == domain.StrategyPerVariation && (apiErr.IsValidation() || apiErr.IsPolicy()) {
		r.logger.WarnContext(ctx, "per-variation price write rejected, retrying with root strategy",
			slog.String("listing_id", listingID),
			slog.String("error", apiErr.Error()),
		)
		if retryErr := r.apply(ctx, listing, domain.StrategyRoot, newPrice); retryErr != nil {
			if retryAPIErr, ok := marketplace.AsAPIError(retryErr); ok {
				return "", r.classified(listing, retryAPIErr)
			}
			return "", retryErr
		}
		r.logger.InfoContext(ctx, "listing price updated",
			slog.String("listing_id", listingID),
			slog.String("strategy", domain.StrategyRoot),
			slog.String("price", newPrice.String()),
		)
		return domain.StrategyRoot, nil
	}

	return "", r.classified(listing, apiErr)
}

func (r *PriceReconciler) apply(ctx context.Context, listing *domain.Listing, strategy string, price decimal.Decimal) error {
	if strategy == domain.StrategyPerVariation {
		ids := make([]int64, len(listing.Variations))
		for i, v := range listing.Variations {
			ids[i] = v.ID
		}
		return r.market.UpdateVariationPrices(ctx, listing.ID, ids, price)
	}
	return r.market.UpdateRootPrice(ctx, listing.ID, price)
}

// classified wraps a terminal rejection with its seller-facing reason.
func (r *PriceReconciler) classified(listing *domain.Listing, apiErr *marketplace.APIError) error {
	reason := Classify(listing, apiErr)
	if reason == domain.ReasonUnknown {
		return fmt.Errorf("price update rejected: %w", apiErr)
	}
	return apperrors.PolicyRejected(string(reason), reason.Advice())
}
