package repo

import (
	"context"
	"testing"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryMetrics(t *testing.T) {
	products := NewInMemoryProductRepository()
	metrics := NewInMemoryMetricsRepository(products)
	ctx := context.Background()

	m, err := metrics.GetDashboardMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, Metrics{}, m)

	a := newProduct("Laptop", 100)
	a.Quantity = 2
	a.ImageURL = "/uploads/1.png"
	d := models.NewPricingDetail(18)
	d.DiscountPercentage = 10
	a.SetDetails(d)
	d.Recalculate(a)
	_, err = products.Save(ctx, a)
	require.NoError(t, err)

	b := newProduct("Mouse", 50)
	b.Quantity = 3
	_, err = products.Save(ctx, b)
	require.NoError(t, err)

	m, err = metrics.GetDashboardMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, m.TotalProducts)
	assert.Equal(t, 5, m.TotalQuantity)
	assert.InDelta(t, 212.4, m.InventoryValue, 1e-9)
	assert.Equal(t, 1, m.ProductsWithoutImage)
	assert.InDelta(t, 5.0, m.AverageDiscountPercentage, 1e-9)
}
