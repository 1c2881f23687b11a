package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepository persists products together with their pricing detail.
type ProductRepository interface {
	// Save inserts p when its ID is zero and updates it otherwise, assigning IDs to
	// the product and its detail as needed. Updating a missing product returns ErrProductNotFound.
	Save(ctx context.Context, p *models.Product) (*models.Product, error)
	// FindByID returns nil and no error when the product does not exist.
	FindByID(ctx context.Context, id int) (*models.Product, error)
	// FindAll returns every product ordered by ascending ID.
	FindAll(ctx context.Context) ([]*models.Product, error)
	ExistsByID(ctx context.Context, id int) (bool, error)
	// DeleteByID removes the product and its pricing detail.
	DeleteByID(ctx context.Context, id int) error
	// FindByNameContaining matches term case-insensitively anywhere in the name.
	FindByNameContaining(ctx context.Context, term string) ([]*models.Product, error)
}
