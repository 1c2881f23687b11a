package repo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
// Values are copied on the way in and out so callers never share state with the store.
type InMemoryProductRepository struct {
	mu           sync.RWMutex
	products     map[int]*models.Product
	nextID       int
	nextDetailID int
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products:     map[int]*models.Product{},
		nextID:       1,
		nextDetailID: 1,
	}
}

func (r *InMemoryProductRepository) Save(_ context.Context, p *models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := p.Clone()
	if stored.ID == 0 {
		stored.ID = r.nextID
		r.nextID++
	} else if _, ok := r.products[stored.ID]; !ok {
		return nil, ErrProductNotFound
	}

	if d := stored.Details(); d != nil {
		if d.ID == 0 {
			d.ID = r.nextDetailID
			r.nextDetailID++
		}
		stored.SetDetails(d)
	}

	r.products[stored.ID] = stored
	return stored.Clone(), nil
}

func (r *InMemoryProductRepository) FindByID(_ context.Context, id int) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

func (r *InMemoryProductRepository) FindAll(_ context.Context) ([]*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sorted(func(*models.Product) bool { return true }), nil
}

func (r *InMemoryProductRepository) ExistsByID(_ context.Context, id int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.products[id]
	return ok, nil
}

func (r *InMemoryProductRepository) DeleteByID(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *InMemoryProductRepository) FindByNameContaining(_ context.Context, term string) ([]*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(term)
	return r.sorted(func(p *models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	}), nil
}

// Clear drops every stored product and restarts identifiers from 1.
func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = map[int]*models.Product{}
	r.nextID = 1
	r.nextDetailID = 1
}

func (r *InMemoryProductRepository) sorted(keep func(*models.Product) bool) []*models.Product {
	out := []*models.Product{}
	for _, p := range r.products {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
