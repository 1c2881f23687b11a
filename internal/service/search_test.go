package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(i int) string { return strconv.Itoa(i) }

func TestSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	laptop, err := f.svc.Save(ctx, input(0, "Gaming Laptop", 100, 0), nil)
	require.NoError(t, err)
	_, err = f.svc.Save(ctx, input(0, "Mouse", 10, 0), nil)
	require.NoError(t, err)

	t.Run("blank query lists everything", func(t *testing.T) {
		res, err := f.svc.Search(ctx, "   ")
		require.NoError(t, err)
		assert.Len(t, res.Products, 2)
		assert.Equal(t, MsgEmptyQuery, res.Message)
	})

	t.Run("numeric query hits by id", func(t *testing.T) {
		res, err := f.svc.Search(ctx, itoa(laptop.ID))
		require.NoError(t, err)
		require.Len(t, res.Products, 1)
		assert.Equal(t, laptop.ID, res.Products[0].ID)
		assert.Empty(t, res.Message)
	})

	t.Run("numeric query misses without name fallback", func(t *testing.T) {
		res, err := f.svc.Search(ctx, "42")
		require.NoError(t, err)
		assert.Empty(t, res.Products)
		assert.Equal(t, "No product found with ID: 42", res.Message)
	})

	t.Run("name query is case insensitive", func(t *testing.T) {
		res, err := f.svc.Search(ctx, "laptop")
		require.NoError(t, err)
		require.Len(t, res.Products, 1)
		assert.Equal(t, "Gaming Laptop", res.Products[0].Name)
	})

	t.Run("name query misses", func(t *testing.T) {
		res, err := f.svc.Search(ctx, "abc")
		require.NoError(t, err)
		assert.Empty(t, res.Products)
		assert.Equal(t, "No products found matching name: 'abc'", res.Message)
	})

	t.Run("too large for an id falls back to name", func(t *testing.T) {
		res, err := f.svc.Search(ctx, "99999999999999999999")
		require.NoError(t, err)
		assert.Equal(t, "No products found matching name: '99999999999999999999'", res.Message)
	})

	t.Run("negative id misses", func(t *testing.T) {
		res, err := f.svc.Search(ctx, "-1")
		require.NoError(t, err)
		assert.Equal(t, "No product found with ID: -1", res.Message)
	})
}
