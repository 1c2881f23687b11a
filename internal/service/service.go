// Package service implements the product upsert workflow and catalog lookups.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/activity"
	"github.com/rogerio-castellano/product-catalog/internal/imagestore"
	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/pricing"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"go.uber.org/zap"
)

var ErrProductNotFound = repo.ErrProductNotFound

// ImageStore persists product images keyed by product id.
type ImageStore interface {
	Save(productID int, up *imagestore.Upload) (string, error)
	Remove(productID int) error
}

type ProductService struct {
	products   repo.ProductRepository
	metrics    repo.MetricsRepository
	images     ImageStore
	activity   activity.Log
	logger     *zap.Logger
	now        func() time.Time
	identity   func() string
	defaultTax float64
}

type Option func(*ProductService)

// WithClock sets the time source used to stamp new products.
func WithClock(now func() time.Time) Option {
	return func(s *ProductService) { s.now = now }
}

// WithIdentity sets the user recorded as creator of new products.
func WithIdentity(identity func() string) Option {
	return func(s *ProductService) { s.identity = identity }
}

func WithActivityLog(l activity.Log) Option {
	return func(s *ProductService) { s.activity = l }
}

func WithMetrics(m repo.MetricsRepository) Option {
	return func(s *ProductService) { s.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *ProductService) { s.logger = l }
}

// WithDefaultTax sets the tax percentage given to newly created pricing details.
func WithDefaultTax(pct float64) Option {
	return func(s *ProductService) { s.defaultTax = pct }
}

func NewProductService(products repo.ProductRepository, images ImageStore, opts ...Option) *ProductService {
	s := &ProductService{
		products:   products,
		images:     images,
		logger:     zap.NewNop(),
		now:        time.Now,
		identity:   func() string { return "system" },
		defaultTax: pricing.DefaultTaxPercentage,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = repo.NewInMemoryMetricsRepository(products)
	}
	return s
}

// Save creates the product when in has no ID and updates the stored one otherwise.
// The discount is taken from in's pricing detail, 0 when it has none. A non-empty
// upload replaces the product image. Updating an unknown ID returns ErrProductNotFound.
func (s *ProductService) Save(ctx context.Context, in *models.Product, upload *imagestore.Upload) (*models.Product, error) {
	var target *models.Product
	action := activity.ActionCreated

	if in.ID == 0 {
		target = &models.Product{
			CreatedBy: s.identity(),
			CreatedAt: s.now().UTC(),
		}
	} else {
		existing, err := s.products.FindByID(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("product %d: %w", in.ID, ErrProductNotFound)
		}
		target = existing
		action = activity.ActionUpdated
	}

	target.Name = in.Name
	target.Brand = in.Brand
	target.Price = in.Price
	target.Quantity = in.Quantity

	saved, err := s.products.Save(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}

	detail := saved.Details()
	if detail == nil {
		detail = models.NewPricingDetail(s.defaultTax)
	}
	detail.DiscountPercentage = 0
	if d := in.Details(); d != nil {
		detail.DiscountPercentage = d.DiscountPercentage
	}
	saved.SetDetails(detail)
	detail.Recalculate(saved)

	imageReplaced := false
	if !upload.IsEmpty() {
		url, err := s.images.Save(saved.ID, upload)
		if err != nil {
			return nil, fmt.Errorf("store image for product %d: %w", saved.ID, err)
		}
		saved.ImageURL = url
		imageReplaced = true
	}

	saved, err = s.products.Save(ctx, saved)
	if err != nil {
		return nil, fmt.Errorf("save product details: %w", err)
	}

	s.logger.Info("product saved",
		zap.String("action", string(action)),
		zap.Int("product_id", saved.ID),
		zap.Bool("image_replaced", imageReplaced),
	)
	s.record(ctx, action, saved)
	if imageReplaced {
		s.record(ctx, activity.ActionImageReplaced, saved)
	}

	return saved, nil
}

// GetByID returns nil without an error when the product does not exist.
func (s *ProductService) GetByID(ctx context.Context, id int) (*models.Product, error) {
	return s.products.FindByID(ctx, id)
}

// GetAll returns every product in ascending ID order.
func (s *ProductService) GetAll(ctx context.Context) ([]*models.Product, error) {
	return s.products.FindAll(ctx)
}

func (s *ProductService) FindByName(ctx context.Context, term string) ([]*models.Product, error) {
	return s.products.FindByNameContaining(ctx, term)
}

// DeleteByID reports false when there was nothing to delete. The stored image goes with the product.
func (s *ProductService) DeleteByID(ctx context.Context, id int) (bool, error) {
	exists, err := s.products.ExistsByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	if err := s.products.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("delete product %d: %w", id, err)
	}

	if err := s.images.Remove(id); err != nil {
		s.logger.Warn("could not remove product image", zap.Int("product_id", id), zap.Error(err))
	}

	s.logger.Info("product deleted", zap.Int("product_id", id))
	s.record(ctx, activity.ActionDeleted, &models.Product{ID: id})
	return true, nil
}

// Metrics returns the dashboard summary.
func (s *ProductService) Metrics(ctx context.Context) (repo.Metrics, error) {
	return s.metrics.GetDashboardMetrics(ctx)
}

// Activity returns up to limit recent catalog changes, newest first.
func (s *ProductService) Activity(ctx context.Context, limit int64) ([]activity.Entry, error) {
	if s.activity == nil {
		return []activity.Entry{}, nil
	}
	return s.activity.Recent(ctx, limit)
}

func (s *ProductService) record(ctx context.Context, action activity.Action, p *models.Product) {
	if s.activity == nil {
		return
	}
	err := s.activity.Record(ctx, activity.Entry{
		Action:      action,
		ProductID:   p.ID,
		ProductName: p.Name,
		Actor:       s.identity(),
		Time:        s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("could not record activity", zap.String("action", string(action)), zap.Int("product_id", p.ID), zap.Error(err))
	}
}
