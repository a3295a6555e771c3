package service

import (
	"context"
	"log/slog"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/domain"
	apperrors "github.com/MxSGameJPS/minhaloja-valorfinal/pkg/errors"
)

// CategoryResolver determines the best-known category for a catalog product
// by trying progressively weaker signals. Each step is independently
// fault-tolerant: a failed lookup is logged and treated as no signal, and the
// cascade moves on.
type CategoryResolver struct {
	market MarketplaceAPI
	logger *slog.Logger
}

// NewCategoryResolver creates a category resolver.
func NewCategoryResolver(market MarketplaceAPI, logger *slog.Logger) *CategoryResolver {
	return &CategoryResolver{market: market, logger: logger}
}

// resolveStep is one strategy in the cascade. An empty category with a nil
// error means "no signal, try the next step".
type resolveStep struct {
	source  string
	attempt func(ctx context.Context, product *domain.CatalogProduct) (string, error)
}

// Resolve fetches the product and walks the resolution cascade: direct
// category, domain directory, site search, category predictor. The first
// non-empty category wins. Exhaustion returns a category-unresolved error;
// no listing may be created from the product in that case.
func (r *CategoryResolver) Resolve(ctx context.Context, productID string) (*domain.Resolution, error) {
	product, err := r.market.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	steps := []resolveStep{
		{domain.ResolvedFromProduct, r.fromProduct},
		{domain.ResolvedFromDomain, r.fromDomain},
		{domain.ResolvedFromSearch, r.fromSearch},
		{domain.ResolvedFromPredictor, r.fromPredictor},
	}

	for _, step := range steps {
		category, err := step.attempt(ctx, product)
		if err != nil {
			r.logger.WarnContext(ctx, "category resolution step failed",
				slog.String("product_id", productID),
				slog.String("step", step.source),
				slog.String("error", err.Error()),
			)
			continue
		}
		if category == "" {
			continue
		}

		r.logger.InfoContext(ctx, "category resolved",
			slog.String("product_id", productID),
			slog.String("category_id", category),
			slog.String("step", step.source),
		)
		return &domain.Resolution{
			CategoryID:      category,
			Source:          step.source,
			CatalogRequired: product.CatalogRequired(),
			Product:         product,
		}, nil
	}

	return nil, apperrors.CategoryUnresolved(productID)
}

func (r *CategoryResolver) fromProduct(_ context.Context, product *domain.CatalogProduct) (string, error) {
	return product.CategoryID, nil
}

func (r *CategoryResolver) fromDomain(ctx context.Context, product *domain.CatalogProduct) (string, error) {
	if product.DomainID == "" {
		return "", nil
	}
	categories, err := r.market.DomainCategories(ctx, product.DomainID)
	if err != nil {
		return "", err
	}
	if len(categories) == 0 {
		return "", nil
	}
	return categories[0], nil
}

func (r *CategoryResolver) fromSearch(ctx context.Context, product *domain.CatalogProduct) (string, error) {
	if product.Name == "" {
		return "", nil
	}
	results, err := r.market.SearchSite(ctx, product.Name)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}
	return results[0].CategoryID, nil
}

func (r *CategoryResolver) fromPredictor(ctx context.Context, product *domain.CatalogProduct) (string, error) {
	if product.Name == "" {
		return "", nil
	}
	return r.market.PredictCategory(ctx, product.Name)
}
