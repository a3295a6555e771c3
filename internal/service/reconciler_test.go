package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/domain"
	apperrors "github.com/MxSGameJPS/minhaloja-valorfinal/pkg/errors"
)

func flatListing(id string) *domain.Listing {
	return &domain.Listing{
		ID:    id,
		Title: "Wireless Mouse 2400dpi",
		Price: price("99.90"),
	}
}

func variationListing(id string, variationIDs ...int64) *domain.Listing {
	l := flatListing(id)
	for _, vid := range variationIDs {
		l.Variations = append(l.Variations, domain.Variation{ID: vid, Price: price("99.90")})
	}
	return l
}

func TestUpdatePrice_FlatListingUsesRootStrategy(t *testing.T) {
	market := new(mockMarketplace)
	reconciler := NewPriceReconciler(market, newTestLogger())

	market.On("GetListing", mock.Anything, "MLB111").Return(flatListing("MLB111"), nil)
	market.On("UpdateRootPrice", mock.Anything, "MLB111", price("129.90")).Return(nil)

	strategy, err := reconciler.UpdatePrice(context.Background(), "MLB111", price("129.90"))

	require.NoError(t, err)
	assert.Equal(t, domain.StrategyRoot, strategy)
	market.AssertNotCalled(t, "UpdateVariationPrices", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePrice_VariationsGetPerVariationStrategy(t *testing.T) {
	market := new(mockMarketplace)
	reconciler := NewPriceReconciler(market, newTestLogger())

	market.On("GetListing", mock.Anything, "MLB111").
		Return(variationListing("MLB111", 101, 102, 103), nil)
	market.On("UpdateVariationPrices", mock.Anything, "MLB111", []int64{101, 102, 103}, price("129.90")).
		Return(nil)

	strategy, err := reconciler.UpdatePrice(context.Background(), "MLB111", price("129.90"))

	require.NoError(t, err)
	assert.Equal(t, domain.StrategyPerVariation, strategy)
	market.AssertNotCalled(t, "UpdateRootPrice", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePrice_PerVariationRejectionRetriesRootOnce(t *testing.T) {
	market := new(mockMarketplace)
	reconciler := NewPriceReconciler(market, newTestLogger())

	market.On("GetListing", mock.Anything, "MLB111").
		Return(variationListing("MLB111", 101), nil)
	market.On("UpdateVariationPrices", mock.Anything, "MLB111", []int64{101}, price("129.90")).
		Return(apiError(400, "item.variations.invalid"))
	market.On("UpdateRootPrice", mock.Anything, "MLB111", price("129.90")).Return(nil)

	strategy, err := reconciler.UpdatePrice(context.Background(), "MLB111", price("129.90"))

	require.NoError(t, err)
	assert.Equal(t, domain.StrategyRoot, strategy, "successful retry reports the root strategy")
	market.AssertNumberOfCalls(t, "UpdateVariationPrices", 1)
	market.AssertNumberOfCalls(t, "UpdateRootPrice", 1)
}

func TestUpdatePrice_RetryFailureIsTerminal(t *testing.T) {
	market := new(mockMarketplace)
	reconciler := NewPriceReconciler(market, newTestLogger())

	market.On("GetListing", mock.Anything, "MLB111").
		Return(variationListing("MLB111", 101), nil)
	market.On("UpdateVariationPrices", mock.Anything, "MLB111", []int64{101}, price("129.90")).
		Return(apiError(400, "item.variations.invalid"))
	market.On("UpdateRootPrice", mock.Anything, "MLB111", price("129.90")).
		Return(apiError(403, "policy.blocked"))

	strategy, err := reconciler.UpdatePrice(context.Background(), "MLB111", price("129.90"))

	require.Error(t, err)
	assert.Empty(t, strategy)
	market.AssertNumberOfCalls(t, "UpdateRootPrice", 1)
	market.AssertNumberOfCalls(t, "UpdateVariationPrices", 1)
}

func TestUpdatePrice_RootRejectionNeverRetries(t *testing.T) {
	market := new(mockMarketplace)
	reconciler := NewPriceReconciler(market, newTestLogger())

	market.On("GetListing", mock.Anything, "MLB111").Return(flatListing("MLB111"), nil)
	market.On("UpdateRootPrice", mock.Anything, "MLB111", price("129.90")).
		Return(apiError(403, "policy.blocked"))

	_, err := reconciler.UpdatePrice(context.Background(), "MLB111", price("129.90"))

	require.Error(t, err)
	market.AssertNumberOfCalls(t, "UpdateRootPrice", 1)
	market.AssertNotCalled(t, "UpdateVariationPrices", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePrice_TransportErrorNotRetried(t *testing.T) {
	market := new(mockMarketplace)
	reconciler := NewPriceReconciler(market, newTestLogger())

	market.On("GetListing", mock.Anything, "MLB111").
		Return(variationListing("MLB111", 101), nil)
	market.On("UpdateVariationPrices", mock.Anything, "MLB111", []int64{101}, price("129.90")).
		Return(errors.New("connection reset"))

	_, err := reconciler.UpdatePrice(context.Background(), "MLB111", price("129.90"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	market.AssertNotCalled(t, "UpdateRootPrice", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePrice_ClassifiedRejection(t *testing.T) {
	market := new(mockMarketplace)
	reconciler := NewPriceReconciler(market, newTestLogger())

	locked := flatListing("MLB111")
	locked.Tags = []string{domain.TagPriceLocked}
	market.On("GetListing", mock.Anything, "MLB111").Return(locked, nil)
	market.On("UpdateRootPrice", mock.Anything, "MLB111", price("129.90")).
		Return(apiError(423, "locked"))

	_, err := reconciler.UpdatePrice(context.Background(), "MLB111", price("129.90"))

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPolicyRejected)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, string(domain.ReasonPriceLocked), appErr.Code)
}

func TestUpdatePrice_UnknownRejectionKeepsAPIError(t *testing.T) {
	market := new(mockMarketplace)
	reconciler := NewPriceReconciler(market, newTestLogger())

	market.On("GetListing", mock.Anything, "MLB111").Return(flatListing("MLB111"), nil)
	market.On("UpdateRootPrice", mock.Anything, "MLB111", price("129.90")).
		Return(apiError(400, "something.odd"))

	_, err := reconciler.UpdatePrice(context.Background(), "MLB111", price("129.90"))

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrPolicyRejected)
	assert.Contains(t, err.Error(), "price update rejected")
}

func TestUpdatePrice_NonPositivePriceRejected(t *testing.T) {
	market := new(mockMarketplace)
	reconciler := NewPriceReconciler(market, newTestLogger())

	_, err := reconciler.UpdatePrice(context.Background(), "MLB111", decimal.Zero)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	market.AssertNotCalled(t, "GetListing", mock.Anything, mock.Anything)
}

func TestUpdatePrice_FetchFailurePropagates(t *testing.T) {
	market := new(mockMarketplace)
	reconciler := NewPriceReconciler(market, newTestLogger())

	market.On("GetListing", mock.Anything, "MLB404").
		Return(nil, apperrors.NotFound("listing", "MLB404"))

	_, err := reconciler.UpdatePrice(context.Background(), "MLB404", price("129.90"))

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
