package repo_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/db"
	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to CATALOG_TEST_DATABASE_URL and skips the test when it is unset.
func openTestDB(t *testing.T) (*sql.DB, repo.Dialect) {
	t.Helper()
	url := os.Getenv("CATALOG_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("CATALOG_TEST_DATABASE_URL not set")
	}
	driver := os.Getenv("CATALOG_TEST_DATABASE_DRIVER")
	if driver == "" {
		driver = "pgx"
	}
	dialect, err := repo.DialectFor(driver)
	require.NoError(t, err)

	ctx := context.Background()
	database, err := db.Connect(ctx, driver, url)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, database, dialect))

	wipe := func() {
		_, _ = database.Exec(`DELETE FROM pricing_details`)
		_, _ = database.Exec(`DELETE FROM products`)
	}
	wipe()
	t.Cleanup(func() {
		wipe()
		database.Close()
	})
	return database, dialect
}

func TestSQLProductRepository(t *testing.T) {
	database, dialect := openTestDB(t)
	r := repo.NewSQLProductRepository(database, dialect, 3*time.Second)
	ctx := context.Background()

	p := &models.Product{
		Name:      "Gaming Laptop",
		Brand:     "Acme",
		Price:     100,
		Quantity:  2,
		CreatedBy: "tester",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	saved, err := r.Save(ctx, p)
	require.NoError(t, err)
	require.NotZero(t, saved.ID)
	assert.Nil(t, saved.Details())

	d := models.NewPricingDetail(18)
	d.DiscountPercentage = 10
	saved.SetDetails(d)
	d.Recalculate(saved)
	saved.ImageURL = "/uploads/1.png"
	saved, err = r.Save(ctx, saved)
	require.NoError(t, err)
	require.NotZero(t, saved.Details().ID)

	found, err := r.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Gaming Laptop", found.Name)
	assert.Equal(t, "tester", found.CreatedBy)
	assert.True(t, p.CreatedAt.Equal(found.CreatedAt))
	assert.Equal(t, "/uploads/1.png", found.ImageURL)
	require.NotNil(t, found.Details())
	assert.InDelta(t, 106.2, found.Details().TotalPrice, 1e-9)
	assert.Equal(t, saved.ID, found.Details().ProductID())

	second, err := r.Save(ctx, &models.Product{Name: "Mouse", Price: 5, CreatedBy: "tester", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	all, err := r.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Less(t, all[0].ID, all[1].ID)
	assert.Empty(t, all[1].ImageURL)

	byName, err := r.FindByNameContaining(ctx, "LAPTOP")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, saved.ID, byName[0].ID)

	m, err := repo.NewSQLMetricsRepository(database, time.Second).GetDashboardMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, m.TotalProducts)
	assert.Equal(t, 1, m.ProductsWithoutImage)
	assert.InDelta(t, 212.4, m.InventoryValue, 1e-6)

	require.NoError(t, r.DeleteByID(ctx, saved.ID))
	exists, err := r.ExistsByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.ErrorIs(t, r.DeleteByID(ctx, saved.ID), repo.ErrProductNotFound)

	missing := second.Clone()
	missing.ID = second.ID + 1000
	_, err = r.Save(ctx, missing)
	assert.ErrorIs(t, err, repo.ErrProductNotFound)
}
