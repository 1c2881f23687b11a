package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type SQLMetricsRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLMetricsRepository(db *sql.DB, timeout time.Duration) *SQLMetricsRepository {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &SQLMetricsRepository{db: db, timeout: timeout}
}

// GetDashboardMetrics aggregates in one statement; products without a pricing detail
// count with a zero total and zero discount.
func (r *SQLMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var m Metrics
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(p.quantity), 0),
			COALESCE(SUM(COALESCE(d.total_price, 0) * p.quantity), 0),
			COALESCE(SUM(CASE WHEN p.image_url IS NULL OR p.image_url = '' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(COALESCE(d.discount_percentage, 0)), 0)
		FROM products p
		LEFT JOIN pricing_details d ON d.product_id = p.id
	`).Scan(&m.TotalProducts, &m.TotalQuantity, &m.InventoryValue, &m.ProductsWithoutImage, &m.AverageDiscountPercentage)
	if err != nil {
		return Metrics{}, fmt.Errorf("dashboard metrics: %w", err)
	}
	return m, nil
}
