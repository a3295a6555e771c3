package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/domain"
)

// DBTX is the subset of pgxpool.Pool the repositories use. Both
// *pgxpool.Pool and pgxmock.PgxPoolIface satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CalculationRepository implements repository.CalculationRepository using
// PostgreSQL.
type CalculationRepository struct {
	db DBTX
}

// NewCalculationRepository creates a new PostgreSQL-backed calculation log.
func NewCalculationRepository(db DBTX) *CalculationRepository {
	return &CalculationRepository{db: db}
}

const calculationColumns = `
	id, sku, current_price, tier, shipping_type,
	cost_price, profit_margin, marketplace_fee, shipping_cost,
	tax_rate, other_costs, profit, recommended_price, wholesale_price,
	created_at`

// Save appends a calculation to the log. The database assigns the ID and
// timestamp, which are written back into calc.
func (r *CalculationRepository) Save(ctx context.Context, calc *domain.PriceCalculation) error {
	query := `
		INSERT INTO price_calculations (
			sku, current_price, tier, shipping_type,
			cost_price, profit_margin, marketplace_fee, shipping_cost,
			tax_rate, other_costs, profit, recommended_price, wholesale_price
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12, $13
		)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		calc.SKU,
		calc.CurrentPrice,
		calc.Tier,
		calc.ShippingType,
		calc.CostPrice,
		calc.ProfitMargin,
		calc.MarketplaceFee,
		calc.ShippingCost,
		calc.TaxRate,
		calc.OtherCosts,
		calc.Profit,
		calc.RecommendedPrice,
		calc.WholesalePrice,
	).Scan(&calc.ID, &calc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert price calculation: %w", err)
	}

	return nil
}

// ListRecent returns the most recent calculations, newest first.
func (r *CalculationRepository) ListRecent(ctx context.Context, limit int) ([]domain.PriceCalculation, error) {
	query := `
		SELECT ` + calculationColumns + `
		FROM price_calculations
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list price calculations: %w", err)
	}
	defer rows.Close()

	return scanCalculations(rows)
}

// ListBySKU returns the calculations recorded for one SKU, newest first.
func (r *CalculationRepository) ListBySKU(ctx context.Context, sku string, limit int) ([]domain.PriceCalculation, error) {
	query := `
		SELECT ` + calculationColumns + `
		FROM price_calculations
		WHERE sku = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, sku, limit)
	if err != nil {
		return nil, fmt.Errorf("list price calculations for sku %s: %w", sku, err)
	}
	defer rows.Close()

	return scanCalculations(rows)
}

func scanCalculations(rows pgx.Rows) ([]domain.PriceCalculation, error) {
	var calcs []domain.PriceCalculation
	for rows.Next() {
		var c domain.PriceCalculation
		if err := rows.Scan(
			&c.ID,
			&c.SKU,
			&c.CurrentPrice,
			&c.Tier,
			&c.ShippingType,
			&c.CostPrice,
			&c.ProfitMargin,
			&c.MarketplaceFee,
			&c.ShippingCost,
			&c.TaxRate,
			&c.OtherCosts,
			&c.Profit,
			&c.RecommendedPrice,
			&c.WholesalePrice,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan price calculation: %w", err)
		}
		calcs = append(calcs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price calculations: %w", err)
	}
	return calcs, nil
}
