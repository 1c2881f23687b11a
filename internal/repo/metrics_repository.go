package repo

import "context"

// Metrics summarises the catalog for the dashboard.
type Metrics struct {
	TotalProducts             int     `json:"total_products"`
	TotalQuantity             int     `json:"total_quantity"`
	InventoryValue            float64 `json:"inventory_value"`
	ProductsWithoutImage      int     `json:"products_without_image"`
	AverageDiscountPercentage float64 `json:"average_discount_percentage"`
}

type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context) (Metrics, error)
}
