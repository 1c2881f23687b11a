package repo

import "context"

// InMemoryMetricsRepository derives metrics by walking a product repository.
type InMemoryMetricsRepository struct {
	productRepo ProductRepository
}

func NewInMemoryMetricsRepository(productRepo ProductRepository) *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{productRepo: productRepo}
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	m := Metrics{}

	products, err := i.productRepo.FindAll(ctx)
	if err != nil {
		return m, err
	}
	m.TotalProducts = len(products)

	var discountSum float64
	for _, p := range products {
		m.TotalQuantity += p.Quantity
		if !p.HasImage() {
			m.ProductsWithoutImage++
		}
		if d := p.Details(); d != nil {
			m.InventoryValue += d.TotalPrice * float64(p.Quantity)
			discountSum += d.DiscountPercentage
		}
	}
	if m.TotalProducts > 0 {
		m.AverageDiscountPercentage = discountSum / float64(m.TotalProducts)
	}

	return m, nil
}
