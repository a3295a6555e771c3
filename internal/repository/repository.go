package repository

import (
	"context"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/domain"
)

// CalculationRepository is the append-only price-calculation log. Entries are
// inserted once and never updated.
type CalculationRepository interface {
	// Save appends a calculation to the log, filling in its ID and CreatedAt.
	Save(ctx context.Context, calc *domain.PriceCalculation) error

	// ListRecent returns the most recent calculations, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.PriceCalculation, error)

	// ListBySKU returns the calculations recorded for one SKU, newest first.
	ListBySKU(ctx context.Context, sku string, limit int) ([]domain.PriceCalculation, error)
}
